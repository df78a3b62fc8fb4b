// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballot-station/ballot"
	"github.com/danielhkuo/ballot-station/metrics"
	"github.com/danielhkuo/ballot-station/middleware"
	"github.com/danielhkuo/ballot-station/models"
)

// Register is the part of *ballot.Register the handlers use.
type Register interface {
	Candidates() []string
	HasVoted(ctx context.Context, referenceID string) (bool, error)
	CastVote(ctx context.Context, sub ballot.Submission) (ballot.Decision, error)
	Results() ballot.Tally
}

var _ Register = (*ballot.Register)(nil)

type VotingHandler struct {
	reg     Register
	metrics *metrics.StationMetrics
}

func NewVotingHandler(reg Register, m *metrics.StationMetrics) *VotingHandler {
	return &VotingHandler{reg: reg, metrics: m}
}

// CastVote handles POST /votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	d := submit(r.Context(), h.reg, h.metrics, ballot.Submission{
		Candidate:   req.Candidate,
		Name:        req.Name,
		ReferenceID: req.ReferenceID,
	})

	resp := models.CastVoteResponse{
		Outcome: d.Outcome.String(),
		Message: d.Message(),
		Results: models.NewResultsResponse(h.reg.Results()),
	}
	if d.Outcome == ballot.Accepted {
		castAt := d.CastAt
		resp.ReceiptID = d.ReceiptID
		resp.CastAt = &castAt
	}

	middleware.JSONResponse(w, statusFor(d.Outcome), resp)
}

// GetResults handles GET /results
func (h *VotingHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.NewResultsResponse(h.reg.Results()))
}

// GetVoterStatus handles GET /voters/{ref}
func (h *VotingHandler) GetVoterStatus(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if ref == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reference ID is required")
		return
	}

	voted, err := h.reg.HasVoted(r.Context(), ref)
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterStatusResponse{
		ReferenceID: ref,
		HasVoted:    voted,
	})
}

// submit casts one vote, logging storage failures and recording metrics.
func submit(ctx context.Context, reg Register, m *metrics.StationMetrics, sub ballot.Submission) ballot.Decision {
	start := time.Now()

	d, err := reg.CastVote(ctx, sub)
	if err != nil {
		slog.Error("failed to record vote", "error", err)
	} else if d.Outcome == ballot.Accepted {
		slog.Info("vote recorded", "receipt_id", d.ReceiptID)
	}

	m.Observe(d.Outcome, time.Since(start))
	return d
}

func statusFor(o ballot.Outcome) int {
	switch o {
	case ballot.Accepted:
		return http.StatusCreated
	case ballot.InvalidInput:
		return http.StatusBadRequest
	case ballot.UnknownCandidate:
		return http.StatusUnprocessableEntity
	case ballot.DuplicateVote:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
