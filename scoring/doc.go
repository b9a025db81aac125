// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring implements the ranking engine for session results.

# Algorithm

For every item, all current participants are partitioned into
favor/neutral/against buckets; a missing vote counts as favor. The score is

	favor*rules.Favor + neutral*rules.Neutral + against*rules.Against

with default weights {favor: 2, neutral: 0, against: -5}. Items sort by
descending score, then ascending against count, then descending favor
count, then ascending text. The four keys form a total order, so the
ranking is deterministic.

# Usage

	results := scoring.Rank(items, participantIDs, rules)

Rank is a pure function; it can be recomputed any number of times from the
same inputs.
*/
package scoring
