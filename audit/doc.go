// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package audit provides append-only sinks for accepted votes: a text file
// (one "Name / Reference ID / Candidate" block per vote) or a Kafka topic.
package audit
