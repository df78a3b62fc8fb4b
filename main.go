// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballot-station/audit"
	"github.com/danielhkuo/ballot-station/ballot"
	"github.com/danielhkuo/ballot-station/cliparse"
	"github.com/danielhkuo/ballot-station/db"
)

var cfg cliparse.Config

var rootCmd = &cobra.Command{
	Use:           "ballot-station",
	Short:         "Single-station ballot register",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cliparse.Resolve(cmd.Flags(), &cfg)
	},
	// No subcommand runs the kiosk
	RunE: runServe,
}

func init() {
	cliparse.AddFlags(rootCmd.PersistentFlags(), &cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("ballot-station failed", "error", err)
		os.Exit(1)
	}
}

// openRegister connects the configured store and audit sink and builds the
// register on top of them.
func openRegister(ctx context.Context, cfg cliparse.Config) (*ballot.Register, error) {
	store, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("voter store: %w", err)
	}

	sink, err := audit.Open(cfg.AuditLog)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("audit log: %w", err)
	}

	reg, err := ballot.NewRegister(ctx, store, sink, cfg.Candidates, ballot.WithReconcile(cfg.Reconcile))
	if err != nil {
		store.Close()
		sink.Close()
		return nil, err
	}

	slog.Info("Ballot register ready",
		"db_type", cfg.DatabaseType,
		"candidates", len(cfg.Candidates),
		"reconcile", cfg.Reconcile,
		"recorded_votes", reg.Results().Total(),
	)
	return reg, nil
}

func closeRegister(reg *ballot.Register) {
	if err := reg.Close(); err != nil {
		slog.Error("failed to close register", "error", err)
	}
}
