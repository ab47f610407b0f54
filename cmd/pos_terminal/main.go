package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kavindus/autoparts_pos_app/internal/platform/config"
	"github.com/kavindus/autoparts_pos_app/pkg/resilience"
)

// pos_terminal submits a checkout payload from a JSON file to the backend
// through the resilient client. Intended for counter terminals and smoke
// testing against a running backend.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	serverURL := flag.String("server", "http://localhost:8080", "backend base URL")
	payloadPath := flag.String("payload", "", "path to checkout request JSON")
	token := flag.String("token", "", "bearer token from /api/v1/auth/login")
	flag.Parse()

	if *payloadPath == "" {
		fmt.Fprintln(os.Stderr, "usage: pos_terminal -payload checkout.json [-server URL] [-token JWT]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	raw, err := os.ReadFile(*payloadPath)
	if err != nil {
		logger.Error("Failed to read payload", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Error("Payload is not valid JSON", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := resilience.NewClient(*serverURL, resilience.Options{
		AttemptTimeout:   cfg.CheckoutAttemptTimeout,
		MaxRetries:       &cfg.CheckoutMaxRetries,
		FailureThreshold: cfg.CircuitFailureThreshold,
		RecoveryTimeout:  cfg.CircuitRecoveryTimeout,
	})

	resp, err := client.Checkout(context.Background(), payload, *token)
	if err != nil {
		logger.Error("Checkout failed", slog.String("error", err.Error()), slog.String("breaker_state", client.BreakerState().String()))
		os.Exit(1)
	}

	fmt.Println(string(resp))
}
