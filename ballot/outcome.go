// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "time"

// Outcome is the result kind of a CastVote call.
type Outcome int

const (
	Accepted Outcome = iota
	InvalidInput
	UnknownCandidate
	DuplicateVote
	StorageFailure
)

var outcomeNames = map[Outcome]string{
	Accepted:         "accepted",
	InvalidInput:     "invalid_input",
	UnknownCandidate: "unknown_candidate",
	DuplicateVote:    "duplicate_vote",
	StorageFailure:   "storage_failure",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Outcomes lists every outcome in declaration order.
func Outcomes() []Outcome {
	return []Outcome{Accepted, InvalidInput, UnknownCandidate, DuplicateVote, StorageFailure}
}

// Decision describes what CastVote did with a submission.
type Decision struct {
	Outcome Outcome
	// Reason is a short human readable explanation for rejections.
	Reason string
	// ReceiptID and CastAt are set only when Outcome is Accepted.
	ReceiptID string
	CastAt    time.Time
}

// Message returns the text a presentation layer shows the voter.
func (d Decision) Message() string {
	switch d.Outcome {
	case Accepted:
		return "Thank you for voting!"
	case InvalidInput:
		return "Please enter your " + d.Reason + "."
	case UnknownCandidate:
		return "That candidate is not on the ballot."
	case DuplicateVote:
		return "This reference ID has already voted."
	default:
		return "Your vote could not be recorded. Please ask a station official for help."
	}
}
