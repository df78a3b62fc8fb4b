// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the station kiosk.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(reg, prometheus.NewRegistry())

# Endpoints

Health (any client):

	GET /health

Kiosk form (loopback only):

	GET  /  - Voting form and live results
	POST /  - Submit the form

Voting API (loopback only):

	POST /votes        - Cast a vote
	GET  /results      - Current tally
	GET  /voters/{ref} - Has this reference ID voted

Metrics (loopback only):

	GET /metrics - Prometheus exposition of submission outcomes

# Handler Initialization

The router creates the station metrics on the given registry and builds
handlers with dependency injection:

	votingHandler := handlers.NewVotingHandler(reg, m)
	kioskHandler := handlers.NewKioskHandler(reg, m)
*/
package router
