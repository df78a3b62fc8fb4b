// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot implements the ballot register: the fixed candidate list,
the running tally and the rule that each reference ID votes at most once.

# Lifecycle

	reg, err := ballot.NewRegister(ctx, store, sink, []string{"A", "B", "C"},
		ballot.WithReconcile(true))
	if err != nil {
		return err
	}
	defer reg.Close()

NewRegister creates the store's schema if it does not exist yet. Existing
voter records are never modified.

# Casting Votes

CastVote checks, in order: blank name, blank reference ID, unknown
candidate, already voted. The first failing check decides the outcome and
nothing is written:

	d, err := reg.CastVote(ctx, ballot.Submission{
		Candidate:   "A",
		Name:        " Alice ",
		ReferenceID: "REF1",
	})
	switch d.Outcome {
	case ballot.Accepted:        // d.ReceiptID is set
	case ballot.InvalidInput:    // d.Reason names the blank field
	case ballot.UnknownCandidate:
	case ballot.DuplicateVote:
	case ballot.StorageFailure:  // err wraps ballot.ErrStorage
	}

An accepted vote writes the voter record, bumps the durable candidate
counter and appends the audit record as one unit. The in-memory tally is
only incremented after that unit commits.

# Results

Results returns a copy of the tally in configured candidate order:

	for _, c := range reg.Results() {
		fmt.Printf("%s: %d\n", c.Candidate, c.Votes)
	}

With WithReconcile(true) the tally starts from the durable counters
instead of zero, so counts survive a restart.
*/
package ballot
