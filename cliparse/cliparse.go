// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/danielhkuo/friend-decider/auth"
)

type Config struct {
	Port              int
	CreationPasswords []string
	MaxSessionsPerIP  int
	ItemLimit         int
	StrictPhases      bool
}

// ParseFlags validates flags, falling back to environment variables for
// anything not set on the command line.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var passwords string

	fs := flag.NewFlagSet("friend-decider", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&passwords, "passwords", "", "Comma-separated creation passwords (prefer env)")
	fs.IntVar(&cfg.MaxSessionsPerIP, "max-sessions-per-ip", -1, "Concurrent session cap per IP (0 disables)")
	fs.IntVar(&cfg.ItemLimit, "item-limit", -1, "Max items per session (0 disables)")
	fs.BoolVar(&cfg.StrictPhases, "strict-phases", true, "Gate item and vote commands by phase")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	if passwords == "" {
		passwords = os.Getenv("CREATION_PASSWORD")
	}
	cfg.CreationPasswords = auth.ParsePasswords(passwords)
	if len(cfg.CreationPasswords) == 0 {
		return Config{}, errors.New("CREATION_PASSWORD required (comma-separated list)")
	}

	if cfg.MaxSessionsPerIP < 0 {
		cfg.MaxSessionsPerIP = envInt("MAX_SESSIONS_PER_IP", 10)
	}
	if cfg.ItemLimit < 0 {
		cfg.ItemLimit = envInt("ITEM_LIMIT", 100)
	}
	if v := os.Getenv("STRICT_PHASES"); v != "" {
		cfg.StrictPhases = v != "false" && v != "0"
	}

	return cfg, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
