// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielhkuo/ballot-station/ballot"
)

// StationMetrics counts vote submissions by outcome and how long each took.
type StationMetrics struct {
	Submissions    *prometheus.CounterVec
	SubmissionTime *prometheus.HistogramVec
}

// New registers the station metrics on reg. Outcome labels are
// pre-initialized so every series is exported at zero.
func New(reg prometheus.Registerer) *StationMetrics {
	f := promauto.With(reg)
	m := &StationMetrics{
		Submissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ballot",
				Subsystem: "station",
				Name:      "submissions_total",
				Help:      "Vote submissions by outcome",
			},
			[]string{"outcome"},
		),
		SubmissionTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ballot",
				Subsystem: "station",
				Name:      "submission_duration_seconds",
				Help:      "Time to decide and record a vote submission",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"outcome"},
		),
	}

	for _, o := range ballot.Outcomes() {
		m.Submissions.WithLabelValues(o.String())
	}

	return m
}

// Observe records one submission. A nil receiver is a no-op.
func (m *StationMetrics) Observe(outcome ballot.Outcome, took time.Duration) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome.String()).Inc()
	m.SubmissionTime.WithLabelValues(outcome.String()).Observe(took.Seconds())
}
