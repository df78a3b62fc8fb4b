// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Defaults match the original single-station layout: files in the working
// directory and three placeholder candidates.
const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultDatabaseURL  = "voting_system.db"
	DefaultAuditLog     = "voting_information.txt"
	DefaultEnvFile      = ".env"
)

var DefaultCandidates = []string{"Candidate A", "Candidate B", "Candidate C"}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AuditLog     string
	Candidates   []string
	Reconcile    bool
	EnvFile      string
}

// AddFlags registers the station flags, writing into cfg.
func AddFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.IntVarP(&cfg.Port, "port", "p", 0, "Kiosk port on the loopback interface")
	flags.StringVarP(&cfg.DatabaseURL, "db-url", "d", "", "Voter store location (file, postgres DSN or redis URL)")
	flags.StringVarP(&cfg.DatabaseType, "db-type", "t", "", "Voter store type (sqlite, postgres or redis)")
	flags.StringVarP(&cfg.AuditLog, "audit-log", "a", "", "Audit log file or kafka://brokers/topic")
	flags.StringSliceVarP(&cfg.Candidates, "candidates", "c", nil, "Comma separated candidate list")
	flags.BoolVar(&cfg.Reconcile, "reconcile", true, "Start the tally from recorded votes instead of zero")
	flags.StringVar(&cfg.EnvFile, "env-file", DefaultEnvFile, "Optional file of environment variables")
}

// Resolve fills every flag that was not set on the command line from the
// environment (after loading the env file), applies defaults and validates.
func Resolve(flags *pflag.FlagSet, cfg *Config) error {
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	if !flags.Changed("port") {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}

	if !flags.Changed("db-type") {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DefaultDatabaseType)
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unsupported database type %q (use sqlite, postgres or redis)", cfg.DatabaseType)
	}

	if !flags.Changed("db-url") {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultDatabaseURL
	}

	if !flags.Changed("audit-log") {
		cfg.AuditLog = envOr("AUDIT_LOG", DefaultAuditLog)
	}

	if !flags.Changed("candidates") {
		if env := os.Getenv("CANDIDATES"); env != "" {
			cfg.Candidates = strings.Split(env, ",")
		} else {
			cfg.Candidates = DefaultCandidates
		}
	}
	cfg.Candidates = cleanCandidates(cfg.Candidates)
	if len(cfg.Candidates) == 0 {
		return errors.New("at least one candidate required (use -c or CANDIDATES env)")
	}

	if !flags.Changed("reconcile") {
		if env := os.Getenv("RECONCILE_TALLY"); env != "" {
			reconcile, err := strconv.ParseBool(env)
			if err != nil {
				return errors.New("invalid RECONCILE_TALLY env variable")
			}
			cfg.Reconcile = reconcile
		}
	}

	return nil
}

// ParseFlags parses args into a resolved Config.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	flags := pflag.NewFlagSet("ballot-station", pflag.ContinueOnError)
	AddFlags(flags, &cfg)

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := Resolve(flags, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// cleanCandidates trims labels and drops blanks. Duplicates are kept so
// the register can reject them.
func cleanCandidates(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
