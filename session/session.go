// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/friend-decider/auth"
	"github.com/danielhkuo/friend-decider/models"
	"github.com/danielhkuo/friend-decider/scoring"
)

// Policy holds the per-server knobs applied to every session.
type Policy struct {
	// ItemLimit caps the number of items per session; 0 disables the cap.
	ItemLimit int
	// StrictPhases gates add-item/remove-item to the adding phase and
	// vote to the voting phase.
	StrictPhases bool
}

type participant struct {
	name      string
	connected bool
}

type item struct {
	id      string
	text    string
	addedBy string
	votes   map[string]string // participantID -> vote value
}

// Session is the authoritative state for one decision session. All exported
// methods lock internally; the websocket dispatch additionally serializes
// command handling and fan-out per session so broadcasts observe mutation
// order.
type Session struct {
	mu sync.RWMutex

	id             string
	name           string
	creatorID      string
	creatorIP      string
	lockNavigation bool
	createdAt      time.Time
	policy         Policy

	phase        string
	items        map[string]*item
	itemOrder    []string // insertion order, for stable snapshots
	participants map[string]*participant
	scoringRules models.ScoringRules
	done         map[string]struct{}

	allDisconnectedAt *time.Time
	results           []models.RankedItem
}

func newSession(id, creatorID, creatorName, creatorIP, name string, lockNavigation bool, policy Policy) *Session {
	s := &Session{
		id:             id,
		name:           name,
		creatorID:      creatorID,
		creatorIP:      creatorIP,
		lockNavigation: lockNavigation,
		createdAt:      time.Now(),
		policy:         policy,
		phase:          models.PhaseAdding,
		items:          make(map[string]*item),
		participants:   make(map[string]*participant),
		scoringRules:   models.ScoringRules{Favor: 2, Neutral: 0, Against: -5},
		done:           make(map[string]struct{}),
	}
	// The creator is pre-registered so their first channel join is a
	// reconnect that restores the creator identity.
	s.participants[creatorID] = &participant{name: creatorName, connected: false}
	return s
}

func (s *Session) ID() string        { return s.id }
func (s *Session) Name() string      { return s.name }
func (s *Session) CreatorID() string { return s.creatorID }
func (s *Session) CreatorIP() string { return s.creatorIP }

func (s *Session) Phase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Join attaches a participant: a known existingID reconnects and keeps its
// vote history, otherwise a new participant is created from name. Clears
// the idle-expiry clock either way.
func (s *Session) Join(name, existingID string) (participantID, displayName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.participants[existingID]; existingID != "" && ok {
		p.connected = true
		s.allDisconnectedAt = nil
		return existingID, p.name, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	participantID = auth.NewID()
	s.participants[participantID] = &participant{name: name, connected: true}
	s.allDisconnectedAt = nil
	return participantID, name, nil
}

// Disconnect marks a participant as no longer connected. The participant
// record is retained so a later reconnect restores identity and votes.
// When last is true the idle-expiry clock starts.
func (s *Session) Disconnect(participantID string, last bool) (displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.participants[participantID]; ok {
		p.connected = false
		displayName = p.name
	}
	if last {
		now := time.Now()
		s.allDisconnectedAt = &now
	}
	return displayName
}

// AddItem inserts a new item with an empty vote map.
func (s *Session) AddItem(participantID, text string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return models.Item{}, err
	}
	if s.policy.StrictPhases && s.phase != models.PhaseAdding {
		return models.Item{}, fmt.Errorf("%w: items can only be added during the adding phase", ErrWrongPhase)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Item{}, fmt.Errorf("%w: item text required", ErrInvalidInput)
	}
	if s.policy.ItemLimit > 0 && len(s.items) >= s.policy.ItemLimit {
		return models.Item{}, fmt.Errorf("%w: item limit of %d reached", ErrInvalidInput, s.policy.ItemLimit)
	}
	for _, existing := range s.items {
		if strings.EqualFold(existing.text, text) {
			return models.Item{}, fmt.Errorf("%w: an item with that name already exists", ErrInvalidInput)
		}
	}

	it := &item{
		id:      auth.NewID(),
		text:    text,
		addedBy: participantID,
		votes:   make(map[string]string),
	}
	s.items[it.id] = it
	s.itemOrder = append(s.itemOrder, it.id)

	return itemView(it), nil
}

// RemoveItem deletes an item. Only the participant who added it or the
// creator may remove it.
func (s *Session) RemoveItem(participantID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return err
	}
	if s.policy.StrictPhases && s.phase != models.PhaseAdding {
		return fmt.Errorf("%w: items can only be removed during the adding phase", ErrWrongPhase)
	}

	it, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("item %w", ErrNotFound)
	}
	if it.addedBy != participantID && s.creatorID != participantID {
		return fmt.Errorf("%w to remove this item", ErrUnauthorized)
	}

	delete(s.items, itemID)
	for i, id := range s.itemOrder {
		if id == itemID {
			s.itemOrder = append(s.itemOrder[:i], s.itemOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Vote upserts the caller's vote on an item.
func (s *Session) Vote(participantID, itemID, vote string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return err
	}
	if !models.ValidVote(vote) {
		return fmt.Errorf("%w: invalid vote value", ErrInvalidInput)
	}
	if s.policy.StrictPhases && s.phase != models.PhaseVoting {
		return fmt.Errorf("%w: votes can only be cast during the voting phase", ErrWrongPhase)
	}

	it, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("item %w", ErrNotFound)
	}

	it.votes[participantID] = vote
	return nil
}

// SetScoring replaces the scoring rules. Creator only. When the session is
// already showing results the cached ranking is stale, so it is recomputed
// and returned for re-broadcast.
func (s *Session) SetScoring(participantID string, rules models.ScoringRules) (fresh []models.RankedItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return nil, err
	}
	if participantID != s.creatorID {
		return nil, fmt.Errorf("%w: only the creator can change scoring", ErrUnauthorized)
	}

	s.scoringRules = rules

	if s.phase == models.PhaseResults {
		s.results = s.rankLocked()
		return s.results, nil
	}
	return nil, nil
}

// DoneUpdate carries the aggregate counts broadcast after a done mutation.
type DoneUpdate struct {
	DoneCount      int
	ConnectedCount int
}

// SetDone sets or clears the caller's membership in the done set.
func (s *Session) SetDone(participantID string, isDone bool) (DoneUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return DoneUpdate{}, err
	}

	if isDone {
		s.done[participantID] = struct{}{}
	} else {
		delete(s.done, participantID)
	}

	return DoneUpdate{
		DoneCount:      len(s.done),
		ConnectedCount: s.connectedCountLocked(),
	}, nil
}

// StartVoting advances adding -> voting. Creator only; at least one item
// must exist.
func (s *Session) StartVoting(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return err
	}
	if participantID != s.creatorID {
		return fmt.Errorf("%w: only the creator can change the phase", ErrUnauthorized)
	}
	if s.phase != models.PhaseAdding {
		return fmt.Errorf("%w: voting can only start from the adding phase", ErrWrongPhase)
	}
	if len(s.items) == 0 {
		return fmt.Errorf("%w: add at least one item before voting", ErrPreconditionFailed)
	}

	s.advanceToVotingLocked()
	return nil
}

// ShowResults advances voting -> results, computing and caching the
// ranking. Creator only.
func (s *Session) ShowResults(participantID string) ([]models.RankedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return nil, err
	}
	if participantID != s.creatorID {
		return nil, fmt.Errorf("%w: only the creator can change the phase", ErrUnauthorized)
	}
	if s.phase != models.PhaseVoting {
		return nil, fmt.Errorf("%w: results can only be shown from the voting phase", ErrWrongPhase)
	}

	s.advanceToResultsLocked()
	return s.results, nil
}

// PrevPhase steps the phase back one step. Creator only. Stepping back to
// adding clears every item's votes; stepping back to voting discards the
// cached ranking.
func (s *Session) PrevPhase(participantID string) (newPhase string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireJoined(participantID); err != nil {
		return "", err
	}
	if participantID != s.creatorID {
		return "", fmt.Errorf("%w: only the creator can change the phase", ErrUnauthorized)
	}

	switch s.phase {
	case models.PhaseVoting:
		for _, it := range s.items {
			clear(it.votes)
		}
		s.phase = models.PhaseAdding
	case models.PhaseResults:
		s.results = nil
		s.phase = models.PhaseVoting
	default:
		return "", fmt.Errorf("%w: no previous phase", ErrWrongPhase)
	}

	s.done = make(map[string]struct{})
	return s.phase, nil
}

// TryAutoAdvance fires the forward phase transition when every currently
// connected participant is in the done set. Disconnected participants do
// not count either way. The phase is re-checked under the lock so a racing
// transition cannot double-advance.
func (s *Session) TryAutoAdvance() (advanced bool, newPhase string, results []models.RankedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.PhaseAdding && s.phase != models.PhaseVoting {
		return false, "", nil
	}

	connected := 0
	for id, p := range s.participants {
		if !p.connected {
			continue
		}
		connected++
		if _, ok := s.done[id]; !ok {
			return false, "", nil
		}
	}
	if connected == 0 {
		return false, "", nil
	}

	switch s.phase {
	case models.PhaseAdding:
		if len(s.items) == 0 {
			return false, "", nil
		}
		s.advanceToVotingLocked()
	case models.PhaseVoting:
		s.advanceToResultsLocked()
	}
	return true, s.phase, s.results
}

// IdleSince returns the time the last connection closed, or zero if any
// connection is live.
func (s *Session) IdleSince() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.allDisconnectedAt == nil {
		return time.Time{}, false
	}
	return *s.allDisconnectedAt, true
}

// Snapshot returns the full public projection of the session. All nested
// structures are copies; the caller may retain them freely.
func (s *Session) Snapshot() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := models.SessionState{
		ID:               s.id,
		Name:             s.name,
		Phase:            s.phase,
		CreatorID:        s.creatorID,
		Participants:     make(map[string]models.Participant, len(s.participants)),
		ScoringRules:     s.scoringRules,
		DoneParticipants: make([]string, 0, len(s.done)),
		LockNavigation:   s.lockNavigation,
		Results:          append([]models.RankedItem(nil), s.results...),
		Items:            make([]models.Item, 0, len(s.items)),
	}
	for id, p := range s.participants {
		state.Participants[id] = models.Participant{Name: p.name, Connected: p.connected}
	}
	for id := range s.done {
		state.DoneParticipants = append(state.DoneParticipants, id)
	}
	for _, id := range s.itemOrder {
		state.Items = append(state.Items, itemView(s.items[id]))
	}
	return state
}

// ParticipantName returns the display name for a participant ID.
func (s *Session) ParticipantName(participantID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[participantID]
	if !ok {
		return "", false
	}
	return p.name, true
}

// locked helpers

func (s *Session) requireJoined(participantID string) error {
	if participantID == "" {
		return ErrNotJoined
	}
	if _, ok := s.participants[participantID]; !ok {
		return ErrNotJoined
	}
	return nil
}

func (s *Session) connectedCountLocked() int {
	n := 0
	for _, p := range s.participants {
		if p.connected {
			n++
		}
	}
	return n
}

// Phase transitions clear the done set in every direction, so readiness is
// always scoped to the phase it was signaled in.
func (s *Session) advanceToVotingLocked() {
	s.phase = models.PhaseVoting
	s.done = make(map[string]struct{})
}

func (s *Session) advanceToResultsLocked() {
	s.phase = models.PhaseResults
	s.results = s.rankLocked()
	s.done = make(map[string]struct{})
}

func (s *Session) rankLocked() []models.RankedItem {
	items := make([]models.Item, 0, len(s.items))
	for _, id := range s.itemOrder {
		items = append(items, itemView(s.items[id]))
	}
	ids := make([]string, 0, len(s.participants))
	for id := range s.participants {
		ids = append(ids, id)
	}
	return scoring.Rank(items, ids, s.scoringRules)
}

func itemView(it *item) models.Item {
	votes := make(map[string]string, len(it.votes))
	for pid, v := range it.votes {
		votes[pid] = v
	}
	return models.Item{ID: it.id, Text: it.text, AddedBy: it.addedBy, Votes: votes}
}
