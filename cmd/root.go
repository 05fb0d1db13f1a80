package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"waterx/internal/config"
	apperrors "waterx/internal/errors"
	"waterx/internal/logger"
	"waterx/internal/notify"
)

var (
	cfg *config.Config
	log logger.Logger

	// events records every notification shown on the console so errors
	// already reported are not printed twice
	events = &notify.Recorder{}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "waterx-admin",
	Short: "WaterX admin settings: branding, profile, backup and restore",
	Long: `waterx-admin manages the settings of a WaterX admin panel from the terminal.

It edits the application logo and your own employee profile, exports the
backend's data to a dated JSON file, and restores a previously exported file.

Configuration is read from the environment, then from .waterx.conf, then
from command line flags (highest priority).

Examples:
  # Interactive settings screen
  waterx-admin interactive

  # Export a backup to ~/waterx_backups
  waterx-admin backup export

  # Restore (dry-run first, then for real)
  waterx-admin restore waterx-backup-2024-05-01.json
  waterx-admin restore waterx-backup-2024-05-01.json --confirm`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		return loadConfiguration(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, c *config.Config, l logger.Logger) error {
	cfg = c
	log = l

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", "", "Path to config file (default: ./.waterx.conf)")
	pf.BoolVar(&cfg.NoLoadConfig, "no-config", false, "Do not read the config file")
	pf.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Admin API base URL")
	pf.StringVar(&cfg.APIToken, "token", cfg.APIToken, "Bearer token for the admin API")
	pf.IntVar(&cfg.HTTPTimeoutSeconds, "timeout", cfg.HTTPTimeoutSeconds, "HTTP timeout in seconds")
	pf.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "Directory for exported backups")
	pf.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Where the signed-in identity is stored")
	pf.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	pf.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this file (rotated)")
	pf.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	pf.StringVar(&cfg.NotifyWebhookURL, "notify-webhook-url", cfg.NotifyWebhookURL, "Mirror notifications to this webhook")
	pf.StringVar(&cfg.NotifySlackURL, "notify-slack-url", cfg.NotifySlackURL, "Mirror notifications to this Slack incoming webhook")

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !alreadyReported(err) {
		logger.Ferror(os.Stderr, "%s", apperrors.Message(err, err.Error()))
	}
	return err
}

// loadConfiguration applies the config file under the flags, rebuilds the
// logger and validates the result
func loadConfiguration(cmd *cobra.Command) error {
	if !cfg.NoLoadConfig {
		path := cfg.ConfigPath
		if path == "" {
			path = filepath.Join(".", config.ConfigFileName)
		}
		local, err := config.LoadLocalConfigFromPath(path)
		if err != nil {
			return apperrors.NewConfigError(apperrors.ErrCodeInvalidConfig,
				"Could not read the config file.", "Fix or remove "+path).WithCause(err)
		}
		if local != nil {
			flagged := *cfg
			config.ApplyLocalConfig(cfg, local)
			reapplyFlags(cmd, &flagged)
			log.Debug("Loaded config file", "file", path)
		}
	}

	if cfg.NoColor {
		logger.DisableColors()
	}

	log = logger.NewWithOptions(logger.Options{
		Level:  cfg.EffectiveLogLevel(),
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	return cfg.Validate()
}

// reapplyFlags restores values set on the command line after the config
// file has been applied
func reapplyFlags(cmd *cobra.Command, flagged *config.Config) {
	flags := cmd.Flags()
	restore := map[string]func(){
		"api-url":            func() { cfg.APIURL = flagged.APIURL },
		"timeout":            func() { cfg.HTTPTimeoutSeconds = flagged.HTTPTimeoutSeconds },
		"backup-dir":         func() { cfg.BackupDir = flagged.BackupDir },
		"log-level":          func() { cfg.LogLevel = flagged.LogLevel },
		"log-format":         func() { cfg.LogFormat = flagged.LogFormat },
		"log-file":           func() { cfg.LogFile = flagged.LogFile },
		"no-color":           func() { cfg.NoColor = flagged.NoColor },
		"notify-webhook-url": func() { cfg.NotifyWebhookURL = flagged.NotifyWebhookURL },
		"notify-slack-url":   func() { cfg.NotifySlackURL = flagged.NotifySlackURL },
	}
	for name, fn := range restore {
		if flags.Changed(name) {
			fn()
		}
	}
}

// alreadyReported reports whether a failure notification was shown
// during this run
func alreadyReported(err error) bool {
	last := events.Last()
	if last == nil {
		return false
	}
	return last.Severity == notify.SeverityError || last.Severity == notify.SeverityWarning
}

func cmdOut(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
