package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"waterx/internal/fs"
)

const ConfigFileName = ".waterx.conf"

// LocalConfig represents a saved configuration in the current directory.
// The API token is never persisted.
type LocalConfig struct {
	// API settings
	APIURL      string
	HTTPTimeout int // seconds

	// Backup settings
	AppName       string
	BackupDir     string
	ReloadDelayMS int

	// Notification settings
	WebhookURL    string
	WebhookMethod string
	SlackURL      string
	MinSeverity   string

	// Output settings
	LogLevel  string
	LogFormat string
	LogFile   string
	NoColor   bool
}

// LoadLocalConfig loads configuration from .waterx.conf in current directory
func LoadLocalConfig() (*LocalConfig, error) {
	return LoadLocalConfigFromPath(filepath.Join(".", ConfigFileName))
}

// LoadLocalConfigFromPath loads configuration from a specific path
func LoadLocalConfigFromPath(configPath string) (*LocalConfig, error) {
	return LoadLocalConfigFs(fs.OS(), configPath)
}

// LoadLocalConfigFs loads configuration from configPath on fsys.
// A missing file yields (nil, nil).
func LoadLocalConfigFs(fsys afero.Fs, configPath string) (*LocalConfig, error) {
	data, err := afero.ReadFile(fsys, configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // No config file, not an error
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &LocalConfig{}
	lines := strings.Split(string(data), "\n")
	currentSection := ""

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(strings.Trim(line, "[]"))
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "api":
			switch key {
			case "url":
				cfg.APIURL = value
			case "timeout":
				if t, err := strconv.Atoi(value); err == nil {
					cfg.HTTPTimeout = t
				}
			}
		case "backup":
			switch key {
			case "app_name":
				cfg.AppName = value
			case "backup_dir":
				cfg.BackupDir = value
			case "reload_delay_ms":
				if d, err := strconv.Atoi(value); err == nil {
					cfg.ReloadDelayMS = d
				}
			}
		case "notify":
			switch key {
			case "webhook_url":
				cfg.WebhookURL = value
			case "webhook_method":
				cfg.WebhookMethod = value
			case "slack_url":
				cfg.SlackURL = value
			case "min_severity":
				cfg.MinSeverity = value
			}
		case "output":
			switch key {
			case "log_level":
				cfg.LogLevel = value
			case "log_format":
				cfg.LogFormat = value
			case "log_file":
				cfg.LogFile = value
			case "no_color":
				cfg.NoColor = value == "true" || value == "1"
			}
		}
	}

	return cfg, nil
}

// SaveLocalConfig saves configuration to .waterx.conf in current directory
func SaveLocalConfig(cfg *LocalConfig) error {
	return SaveLocalConfigToPath(cfg, filepath.Join(".", ConfigFileName))
}

// SaveLocalConfigToPath saves configuration to a specific path
func SaveLocalConfigToPath(cfg *LocalConfig, configPath string) error {
	return SaveLocalConfigFs(fs.OS(), cfg, configPath)
}

// SaveLocalConfigFs renders cfg and writes it atomically to configPath on fsys
func SaveLocalConfigFs(fsys afero.Fs, cfg *LocalConfig, configPath string) error {
	var sb strings.Builder

	sb.WriteString("# waterx-admin configuration\n")
	sb.WriteString("# This file is auto-generated. Edit with care.\n\n")

	sb.WriteString("[api]\n")
	if cfg.APIURL != "" {
		sb.WriteString(fmt.Sprintf("url = %s\n", cfg.APIURL))
	}
	if cfg.HTTPTimeout != 0 {
		sb.WriteString(fmt.Sprintf("timeout = %d\n", cfg.HTTPTimeout))
	}
	sb.WriteString("\n")

	sb.WriteString("[backup]\n")
	if cfg.AppName != "" {
		sb.WriteString(fmt.Sprintf("app_name = %s\n", cfg.AppName))
	}
	if cfg.BackupDir != "" {
		sb.WriteString(fmt.Sprintf("backup_dir = %s\n", cfg.BackupDir))
	}
	if cfg.ReloadDelayMS != 0 {
		sb.WriteString(fmt.Sprintf("reload_delay_ms = %d\n", cfg.ReloadDelayMS))
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	if cfg.WebhookURL != "" {
		sb.WriteString(fmt.Sprintf("webhook_url = %s\n", cfg.WebhookURL))
	}
	if cfg.WebhookMethod != "" {
		sb.WriteString(fmt.Sprintf("webhook_method = %s\n", cfg.WebhookMethod))
	}
	if cfg.SlackURL != "" {
		sb.WriteString(fmt.Sprintf("slack_url = %s\n", cfg.SlackURL))
	}
	if cfg.MinSeverity != "" {
		sb.WriteString(fmt.Sprintf("min_severity = %s\n", cfg.MinSeverity))
	}
	sb.WriteString("\n")

	sb.WriteString("[output]\n")
	if cfg.LogLevel != "" {
		sb.WriteString(fmt.Sprintf("log_level = %s\n", cfg.LogLevel))
	}
	if cfg.LogFormat != "" {
		sb.WriteString(fmt.Sprintf("log_format = %s\n", cfg.LogFormat))
	}
	if cfg.LogFile != "" {
		sb.WriteString(fmt.Sprintf("log_file = %s\n", cfg.LogFile))
	}
	if cfg.NoColor {
		sb.WriteString("no_color = true\n")
	}

	// 0600: the file may carry webhook URLs with embedded credentials
	if err := fs.WriteFileAtomic(fsys, configPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyLocalConfig applies loaded local config to the main config.
// All non-empty/non-zero values from the config file are applied.
// CLI flag overrides are handled separately in root.go after this function.
func ApplyLocalConfig(cfg *Config, local *LocalConfig) {
	if local == nil {
		return
	}

	if local.APIURL != "" {
		cfg.APIURL = local.APIURL
	}
	if local.HTTPTimeout != 0 {
		cfg.HTTPTimeoutSeconds = local.HTTPTimeout
	}
	if local.AppName != "" {
		cfg.AppName = local.AppName
	}
	if local.BackupDir != "" {
		cfg.BackupDir = local.BackupDir
	}
	if local.ReloadDelayMS != 0 {
		cfg.RestoreReloadDelay = time.Duration(local.ReloadDelayMS) * time.Millisecond
	}
	if local.WebhookURL != "" {
		cfg.NotifyWebhookURL = local.WebhookURL
	}
	if local.WebhookMethod != "" {
		cfg.NotifyWebhookMethod = local.WebhookMethod
	}
	if local.SlackURL != "" {
		cfg.NotifySlackURL = local.SlackURL
	}
	if local.MinSeverity != "" {
		cfg.NotifyMinSeverity = local.MinSeverity
	}
	if local.LogLevel != "" {
		cfg.LogLevel = local.LogLevel
	}
	if local.LogFormat != "" {
		cfg.LogFormat = local.LogFormat
	}
	if local.LogFile != "" {
		cfg.LogFile = local.LogFile
	}
	if local.NoColor {
		cfg.NoColor = true
	}
}

// ConfigFromConfig creates a LocalConfig from a Config
func ConfigFromConfig(cfg *Config) *LocalConfig {
	return &LocalConfig{
		APIURL:        cfg.APIURL,
		HTTPTimeout:   cfg.HTTPTimeoutSeconds,
		AppName:       cfg.AppName,
		BackupDir:     cfg.BackupDir,
		ReloadDelayMS: int(cfg.RestoreReloadDelay / time.Millisecond),
		WebhookURL:    cfg.NotifyWebhookURL,
		WebhookMethod: cfg.NotifyWebhookMethod,
		SlackURL:      cfg.NotifySlackURL,
		MinSeverity:   cfg.NotifyMinSeverity,
		LogLevel:      cfg.LogLevel,
		LogFormat:     cfg.LogFormat,
		LogFile:       cfg.LogFile,
		NoColor:       cfg.NoColor,
	}
}
