// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for a single-station ballot register.

Each voter enters a name and a reference ID and picks one candidate. A
reference ID can vote once, ever; accepted votes are written to the voter
store and the audit log together, and the running tally is shown after
every submission.

# Commands

	ballot-station serve           # kiosk on 127.0.0.1:PORT (default)
	ballot-station console         # voting form in the terminal
	ballot-station results         # recorded tally
	ballot-station status REF-123  # has this reference ID voted

# Configuration

Flags fall back to environment variables, which may come from a .env file:

  - DATABASE_TYPE (-t): sqlite, postgres or redis (default: sqlite)
  - DATABASE_URL (-d): store location (default: voting_system.db)
  - AUDIT_LOG (-a): audit file or kafka://brokers/topic (default: voting_information.txt)
  - CANDIDATES (-c): comma separated list (default: Candidate A,Candidate B,Candidate C)
  - PORT (-p): kiosk port (default: 3318)
  - RECONCILE_TALLY (--reconcile): start from recorded totals (default: true)

# Architecture

  - ballot: the register, outcomes and store/audit interfaces
  - db: SQLite, PostgreSQL and Redis voter stores
  - audit: file and Kafka audit sinks
  - handlers: kiosk form and JSON API
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, loopback guard, JSON helpers
  - metrics: Prometheus submission metrics
  - console: terminal voting form
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
