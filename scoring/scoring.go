// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"sort"

	"github.com/danielhkuo/friend-decider/models"
)

// Rank computes the ordered results for a set of items. Every current
// participant is counted on every item; a participant with no recorded vote
// counts as in favor, so silent participants cannot veto by omission.
//
// Sort order is a total order over distinct items: higher score first, then
// fewer against votes, then more favor votes, then case-sensitive text
// ascending. Rank is deterministic and never mutates its inputs.
func Rank(items []models.Item, participantIDs []string, rules models.ScoringRules) []models.RankedItem {
	total := len(participantIDs)

	ranked := make([]models.RankedItem, 0, len(items))
	for _, item := range items {
		var counts models.VoteCounts
		for _, pid := range participantIDs {
			switch item.Votes[pid] {
			case models.VoteAgainst:
				counts.Against++
			case models.VoteNeutral:
				counts.Neutral++
			default:
				counts.Favor++
			}
		}

		score := counts.Favor*rules.Favor + counts.Neutral*rules.Neutral + counts.Against*rules.Against

		ranked = append(ranked, models.RankedItem{
			ID:                item.ID,
			Text:              item.Text,
			AddedBy:           item.AddedBy,
			Score:             score,
			Votes:             counts,
			TotalParticipants: total,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		// 1. Higher score wins
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		// 2. Fewer against votes wins
		if a.Votes.Against != b.Votes.Against {
			return a.Votes.Against < b.Votes.Against
		}

		// 3. More favor votes wins
		if a.Votes.Favor != b.Votes.Favor {
			return a.Votes.Favor > b.Votes.Favor
		}

		// 4. Stable tie-breaking by text (ascending, case-sensitive)
		return a.Text < b.Text
	})

	return ranked
}
