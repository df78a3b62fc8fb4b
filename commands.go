// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballot-station/ballot"
	"github.com/danielhkuo/ballot-station/console"
	"github.com/danielhkuo/ballot-station/db"
)

func init() {
	rootCmd.AddCommand(consoleCmd, resultsCmd, statusCmd)
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the voting form in this terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, err := openRegister(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRegister(reg)

		accepted, err := console.New(reg, os.Stdin, cmd.OutOrStdout()).Run(ctx)
		slog.Info("Station closed", "accepted", accepted)
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print the recorded tally",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := map[string]int{}

		store, err := openRecords(cmd.Context())
		if err != nil {
			return err
		}
		if store != nil {
			defer closeStore(store)
			if counts, err = store.CandidateCounts(cmd.Context()); err != nil {
				return fmt.Errorf("failed to read tally: %w", err)
			}
		}

		console.PrintTally(cmd.OutOrStdout(), ballot.NewTally(cfg.Candidates, counts))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <reference-id>",
	Short: "Report whether a reference ID has voted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := strings.TrimSpace(args[0])
		voted := false

		store, err := openRecords(cmd.Context())
		if err != nil {
			return err
		}
		if store != nil {
			defer closeStore(store)
			if voted, err = store.HasVoted(cmd.Context(), ref); err != nil {
				return fmt.Errorf("failed to look up %q: %w", ref, err)
			}
		}

		if voted {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has voted\n", ref)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has not voted\n", ref)
		}
		return nil
	},
}

// openRecords opens only the voter store, for commands that read. A nil
// store with a nil error means the station has not recorded anything yet.
func openRecords(ctx context.Context) (ballot.Store, error) {
	store, err := db.OpenExisting(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if errors.Is(err, db.ErrNoStore) {
		slog.Info("No votes recorded yet", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("voter store: %w", err)
	}
	return store, nil
}

func closeStore(store ballot.Store) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close voter store", "error", err)
	}
}
