// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines wire types, domain value types, and constants shared
across the server.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: password, creatorName, sessionName, lockNavigation

# Response Types

Types for JSON responses:

  - CreateSessionResponse: sessionId, participantId
  - ConfigResponse: passwordRequired
  - ErrorResponse: error, message

# Domain Types

  - ScoringRules: favor/neutral/against integer weights
  - Participant: name and connected flag
  - Item: one proposed option with its per-participant votes
  - RankedItem: one row of a computed ranking
  - SessionState: full public snapshot of a session

# Websocket Messages

ClientMessage is the single inbound shape; Type selects the command
(Msg* inbound constants). ServerMessage is the single outbound shape
(Msg* outbound constants). Both are plain structs so frames marshal with
encoding/json and omit unused fields.

# Constants

Phase values:

	PhaseAdding  = "adding"
	PhaseVoting  = "voting"
	PhaseResults = "results"

Vote values:

	VoteFavor   = "favor"
	VoteNeutral = "neutral"
	VoteAgainst = "against"
*/
package models
