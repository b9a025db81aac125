// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Session phase constants
const (
	PhaseAdding  = "adding"
	PhaseVoting  = "voting"
	PhaseResults = "results"
)

// Vote value constants
const (
	VoteFavor   = "favor"
	VoteNeutral = "neutral"
	VoteAgainst = "against"
)

// ValidVote reports whether v is one of the three accepted vote values.
func ValidVote(v string) bool {
	return v == VoteFavor || v == VoteNeutral || v == VoteAgainst
}

// Request types

type CreateSessionRequest struct {
	Password       string `json:"password"`
	CreatorName    string `json:"creatorName"`
	SessionName    string `json:"sessionName"`
	LockNavigation bool   `json:"lockNavigation"`
}

// Response types

type CreateSessionResponse struct {
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
}

type ConfigResponse struct {
	PasswordRequired bool `json:"passwordRequired"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type ScoringRules struct {
	Favor   int `json:"favor"`
	Neutral int `json:"neutral"`
	Against int `json:"against"`
}

type Participant struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// Item is the public projection of one proposed option. Votes maps
// participant ID to a vote value; a participant absent from the map counts
// as in favor at scoring time.
type Item struct {
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	AddedBy string            `json:"addedBy"`
	Votes   map[string]string `json:"votes"`
}

type VoteCounts struct {
	Favor   int `json:"favor"`
	Neutral int `json:"neutral"`
	Against int `json:"against"`
}

// RankedItem is one row of a computed ranking.
type RankedItem struct {
	ID                string     `json:"id"`
	Text              string     `json:"text"`
	AddedBy           string     `json:"addedBy"`
	Score             int        `json:"score"`
	Votes             VoteCounts `json:"votes"`
	TotalParticipants int        `json:"totalParticipants"`
}

// SessionState is the full public snapshot of a session, sent to a joining
// client and served by GET /api/sessions/{id}.
type SessionState struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Phase            string                 `json:"phase"`
	CreatorID        string                 `json:"creatorId"`
	Participants     map[string]Participant `json:"participants"`
	ScoringRules     ScoringRules           `json:"scoringRules"`
	DoneParticipants []string               `json:"doneParticipants"`
	LockNavigation   bool                   `json:"lockNavigation"`
	Results          []RankedItem           `json:"results"`
	Items            []Item                 `json:"items"`
}

// Websocket wire types

// ClientMessage is the single inbound message shape. Type selects the
// command; the remaining fields are populated per type. Scoring values are
// pointers so a missing field is distinguishable from zero.
type ClientMessage struct {
	Type                  string `json:"type"`
	Name                  string `json:"name,omitempty"`
	ExistingParticipantID string `json:"existingParticipantId,omitempty"`
	Text                  string `json:"text,omitempty"`
	ItemID                string `json:"itemId,omitempty"`
	Vote                  string `json:"vote,omitempty"`
	IsDone                bool   `json:"isDone,omitempty"`
	Favor                 *int   `json:"favor,omitempty"`
	Neutral               *int   `json:"neutral,omitempty"`
	Against               *int   `json:"against,omitempty"`
}

// Inbound message types
const (
	MsgJoin        = "join"
	MsgAddItem     = "add-item"
	MsgRemoveItem  = "remove-item"
	MsgVote        = "vote"
	MsgStartVoting = "start-voting"
	MsgShowResults = "show-results"
	MsgMarkDone    = "mark-done"
	MsgSetDone     = "set-done"
	MsgPrevPhase   = "prev-phase"
	MsgSetScoring  = "set-scoring"
)

// ServerMessage is the outbound message shape. Only the fields relevant to
// Type are populated.
type ServerMessage struct {
	Type           string        `json:"type"`
	Message        string        `json:"message,omitempty"`
	ParticipantID  string        `json:"participantId,omitempty"`
	Name           string        `json:"name,omitempty"`
	State          *SessionState `json:"state,omitempty"`
	Item           *Item         `json:"item,omitempty"`
	ItemID         string        `json:"itemId,omitempty"`
	Vote           string        `json:"vote,omitempty"`
	Phase          string        `json:"phase,omitempty"`
	IsDone         bool          `json:"isDone,omitempty"`
	DoneCount      int           `json:"doneCount,omitempty"`
	ConnectedCount int           `json:"connectedCount,omitempty"`
	ScoringRules   *ScoringRules `json:"scoringRules,omitempty"`
	Results        []RankedItem  `json:"results,omitempty"`
}

// Outbound message types
const (
	MsgError             = "error"
	MsgState             = "state"
	MsgParticipantJoined = "participant-joined"
	MsgParticipantLeft   = "participant-left"
	MsgItemAdded         = "item-added"
	MsgItemRemoved       = "item-removed"
	MsgVoteUpdated       = "vote-updated"
	MsgPhaseChanged      = "phase-changed"
	MsgDoneUpdated       = "done-updated"
	MsgScoringUpdated    = "scoring-updated"
	MsgResults           = "results"
)
