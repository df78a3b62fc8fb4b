// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the kiosk API.

# Request Types

  - CastVoteRequest: name, reference_id, candidate (sent untrimmed)

# Response Types

  - CastVoteResponse: outcome, message, receipt_id, cast_at, results
  - ResultsResponse: candidates (ordered), total_votes
  - VoterStatusResponse: reference_id, has_voted
  - ErrorResponse: error, message

Outcome strings come from ballot.Outcome:

	accepted, invalid_input, unknown_candidate, duplicate_vote, storage_failure
*/
package models
