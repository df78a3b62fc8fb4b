// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/ballot-station/ballot"
)

// Request types

type CastVoteRequest struct {
	Name        string `json:"name"`
	ReferenceID string `json:"reference_id"`
	Candidate   string `json:"candidate"`
}

// Response types

type CastVoteResponse struct {
	Outcome   string          `json:"outcome"`
	Message   string          `json:"message"`
	ReceiptID string          `json:"receipt_id,omitempty"`
	CastAt    *time.Time      `json:"cast_at,omitempty"`
	Results   ResultsResponse `json:"results"`
}

type ResultsResponse struct {
	Candidates []ballot.CandidateCount `json:"candidates"`
	TotalVotes int                     `json:"total_votes"`
}

type VoterStatusResponse struct {
	ReferenceID string `json:"reference_id"`
	HasVoted    bool   `json:"has_voted"`
}

// NewResultsResponse converts a tally snapshot for JSON output.
func NewResultsResponse(t ballot.Tally) ResultsResponse {
	candidates := []ballot.CandidateCount(t)
	if candidates == nil {
		candidates = []ballot.CandidateCount{}
	}
	return ResultsResponse{
		Candidates: candidates,
		TotalVotes: t.Total(),
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
