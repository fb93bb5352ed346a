// Package main provides the entry point for the unitbook CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/unitbook/unitbook/cmd/unitbook/cmd"
	"github.com/unitbook/unitbook/pkg/logging"
)

func main() {
	// Interrupts cancel the context so an in-flight import stops between
	// rows; progress already committed stays committed.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		logging.Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
