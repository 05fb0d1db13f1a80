package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"waterx/internal/config"
	"waterx/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printConfig()
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective configuration to .waterx.conf",
	Long: `Write the effective configuration (environment, existing file and flags
combined) to .waterx.conf, or to the path given by --config.

The API token is never written to the file; keep it in WATERX_API_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.ConfigPath
		if path == "" {
			path = filepath.Join(".", config.ConfigFileName)
		}
		if err := config.SaveLocalConfigToPath(config.ConfigFromConfig(cfg), path); err != nil {
			return err
		}
		logger.Fsuccess(cmdOut(cmd), "Configuration saved to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSaveCmd)
}

func printConfig() {
	logger.Header("Configuration")
	logger.StatusLine("API URL", cfg.APIURL)
	logger.StatusLine("API token", maskSecret(cfg.APIToken))
	logger.StatusLine("Timeout", fmt.Sprintf("%ds", cfg.HTTPTimeoutSeconds))
	logger.StatusLine("App name", cfg.AppName)
	logger.StatusLine("Backup dir", logger.Path(cfg.BackupDir))
	logger.StatusLine("Reload", cfg.RestoreReloadDelay.String())
	logger.StatusLine("Session", logger.Path(cfg.SessionFile))
	logger.StatusLine("Log level", cfg.EffectiveLogLevel())
	logger.StatusLine("Log format", cfg.LogFormat)
	if cfg.LogFile != "" {
		logger.StatusLine("Log file", logger.Path(cfg.LogFile))
	}
	if cfg.NotifyWebhookURL != "" {
		logger.StatusLine("Webhook", cfg.NotifyWebhookURL)
	}
	if cfg.NotifySlackURL != "" {
		logger.StatusLine("Slack", maskSecret(cfg.NotifySlackURL))
	}
	logger.StatusLine("Min severity", cfg.NotifyMinSeverity)
}

// maskSecret keeps the first four characters
func maskSecret(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) <= 4:
		return strings.Repeat("*", len(s))
	default:
		return s[:4] + strings.Repeat("*", 8)
	}
}
