// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/ballot-station/handlers"
	"github.com/danielhkuo/ballot-station/metrics"
	"github.com/danielhkuo/ballot-station/middleware"
)

// local wraps a handler with logging and the loopback guard
func local(h http.HandlerFunc) http.HandlerFunc {
	return middleware.WithLogging(middleware.LoopbackOnly(h))
}

func NewRouter(reg handlers.Register, promReg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	m := metrics.New(promReg)

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(reg, m)
	kioskHandler := handlers.NewKioskHandler(reg, m)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	metricsHandler := promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})
	mux.HandleFunc("GET /metrics", local(metricsHandler.ServeHTTP))

	// Kiosk form
	mux.HandleFunc("GET /{$}", local(kioskHandler.ShowForm))
	mux.HandleFunc("POST /{$}", local(kioskHandler.SubmitForm))

	// Voting API
	mux.HandleFunc("POST /votes", local(votingHandler.CastVote))
	mux.HandleFunc("GET /results", local(votingHandler.GetResults))
	mux.HandleFunc("GET /voters/{ref}", local(votingHandler.GetVoterStatus))

	return mux
}
