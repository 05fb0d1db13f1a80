// waterx-admin manages the settings of a WaterX admin panel: branding,
// the signed-in employee's profile, and full-data backup and restore.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"waterx/cmd"
	"waterx/internal/config"
	"waterx/internal/exitcode"
	"waterx/internal/logger"
)

// Build information (set by ldflags)
var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.New()
	cfg.Version = version
	cfg.BuildTime = buildTime
	cfg.GitCommit = gitCommit

	log := logger.New(cfg.EffectiveLogLevel(), cfg.LogFormat)

	if err := cmd.Execute(ctx, cfg, log); err != nil {
		// already printed by the command layer
		log.Debug("Command failed", "error", err)
		cancel()
		os.Exit(exitcode.ExitWithCode(err))
	}
}
