// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/friend-decider/auth"
	"github.com/danielhkuo/friend-decider/cliparse"
	"github.com/danielhkuo/friend-decider/middleware"
	"github.com/danielhkuo/friend-decider/router"
	"github.com/danielhkuo/friend-decider/session"
)

const (
	rateLimitMax    = 5
	rateLimitWindow = time.Minute
	rateLimitPrune  = 30 * time.Second
)

func main() {
	// Optional .env for development; env vars win when both are set
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if weak := auth.WeakPasswordCount(cfg.CreationPasswords); weak > 0 {
		slog.Warn("some creation passwords are shorter than 8 characters",
			"count", weak)
	}
	slog.Info("creation passwords loaded", "count", len(cfg.CreationPasswords))

	registry := session.NewRegistry(session.Policy{
		ItemLimit:    cfg.ItemLimit,
		StrictPhases: cfg.StrictPhases,
	})
	limiter := middleware.NewRateLimiter(rateLimitMax, rateLimitWindow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Run(ctx)
	go limiter.Run(ctx, rateLimitPrune)

	mux := router.NewRouter(registry, cfg, limiter)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		cancel()
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
