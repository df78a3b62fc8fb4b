// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the kiosk's HTTP request handlers.

# Handler Types

Each handler is a struct built from the ballot register and optional
metrics:

  - VotingHandler: JSON API (cast vote, results, voter status)
  - KioskHandler: HTML form for the voter at the station

	votingHandler := handlers.NewVotingHandler(reg, m)

Handlers depend on the Register interface, which *ballot.Register
satisfies.

# JSON API

	POST /votes        → CastVote
	GET  /results      → GetResults
	GET  /voters/{ref} → GetVoterStatus

CastVote maps outcomes to status codes:

	accepted          201
	invalid_input     400
	duplicate_vote    409
	unknown_candidate 422
	storage_failure   500

Every CastVote response carries the refreshed results.

# Kiosk Form

	GET  /  → ShowForm
	POST /  → SubmitForm

The form has a name field, a reference ID field and one Vote button per
candidate. After each submission the page is rendered again with the
outcome message, the current tally and empty fields.
*/
package handlers
