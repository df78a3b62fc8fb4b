// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a resolved Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands built with cobra register the same flags and resolve them after
parsing:

	cliparse.AddFlags(cmd.PersistentFlags(), &cfg)
	// in PersistentPreRunE
	err := cliparse.Resolve(cmd.Flags(), &cfg)

# Config Fields

  - Port: Kiosk port on 127.0.0.1 (default: 3318)
  - DatabaseType: sqlite, postgres or redis (default: sqlite)
  - DatabaseURL: Voter store location (default: voting_system.db)
  - AuditLog: Audit file path or kafka://brokers/topic (default: voting_information.txt)
  - Candidates: Ballot candidates (default: Candidate A, Candidate B, Candidate C)
  - Reconcile: Start the tally from recorded votes (default: true)

# CLI Flags

	-p, --port        Kiosk port
	-t, --db-type     Voter store type
	-d, --db-url      Voter store location
	-a, --audit-log   Audit log target
	-c, --candidates  Comma separated candidates
	--reconcile       Rebuild tally from recorded votes
	--env-file        Env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_TYPE   → -t
	DATABASE_URL    → -d
	AUDIT_LOG       → -a
	CANDIDATES      → -c
	RECONCILE_TALLY → --reconcile

Variables may also come from the env file; it never overrides variables
already set in the process. CLI flags take precedence over both.

# Validation

Resolve returns an error if:

  - PORT is not a number in 1-65535
  - the store type is unknown
  - DATABASE_URL is missing for postgres or redis
  - the candidate list is empty after trimming
*/
package cliparse
