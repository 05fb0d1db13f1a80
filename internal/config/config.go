package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options
type Config struct {
	// Version information
	Version   string
	BuildTime string
	GitCommit string

	// Config file path (--config flag)
	ConfigPath string

	// Admin API
	APIURL             string
	APIToken           string
	HTTPTimeoutSeconds int

	// Application identity, used in backup file names
	AppName string

	// Backup options
	BackupDir          string
	RestoreReloadDelay time.Duration // pause between restore success and reload

	// Session
	SessionFile string

	// Output options
	NoColor   bool
	Debug     bool
	LogLevel  string
	LogFormat string
	LogFile   string

	// Config persistence
	NoSaveConfig bool
	NoLoadConfig bool

	// TUI automation options (for testing)
	TUIAutoConfirm bool   // Auto-confirm all prompts
	TUIDebug       bool   // Verbose TUI logging
	TUILogFile     string // TUI event log file path

	// Notification options
	NotifyWebhookURL    string // Webhook URL
	NotifyWebhookMethod string // Webhook HTTP method (POST/PUT)
	NotifyWebhookSecret string // Webhook signing secret
	NotifySlackURL      string // Slack incoming webhook
	NotifyMinSeverity   string // info, success, warning, error
	NotifyRetries       int
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		APIURL:             getEnvString("WATERX_API_URL", "http://localhost:8787"),
		APIToken:           getEnvString("WATERX_API_TOKEN", ""),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SEC", 30),

		AppName: getEnvString("WATERX_APP_NAME", "waterx"),

		BackupDir:          getEnvString("BACKUP_DIR", getDefaultBackupDir()),
		RestoreReloadDelay: time.Duration(getEnvInt("RESTORE_RELOAD_DELAY_MS", 2000)) * time.Millisecond,

		SessionFile: getEnvString("WATERX_SESSION_FILE", getDefaultSessionFile()),

		NoColor:   getEnvBool("NO_COLOR", false),
		Debug:     getEnvBool("DEBUG", false),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "text"),
		LogFile:   getEnvString("LOG_FILE", ""),

		TUIAutoConfirm: getEnvBool("TUI_AUTO_CONFIRM", false),
		TUIDebug:       getEnvBool("TUI_DEBUG", false),
		TUILogFile:     getEnvString("TUI_LOG_FILE", ""),

		NotifyWebhookURL:    getEnvString("NOTIFY_WEBHOOK_URL", ""),
		NotifyWebhookMethod: getEnvString("NOTIFY_WEBHOOK_METHOD", "POST"),
		NotifyWebhookSecret: getEnvString("NOTIFY_WEBHOOK_SECRET", ""),
		NotifySlackURL:      getEnvString("NOTIFY_SLACK_URL", ""),
		NotifyMinSeverity:   getEnvString("NOTIFY_MIN_SEVERITY", "info"),
		NotifyRetries:       getEnvInt("NOTIFY_RETRIES", 3),
	}
}

// UpdateFromEnvironment updates configuration from environment variables
func (c *Config) UpdateFromEnvironment() {
	if v := os.Getenv("WATERX_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("WATERX_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("BACKUP_DIR"); v != "" {
		c.BackupDir = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "api-url", Value: c.APIURL, Message: "must be an absolute http(s) URL"}
	}

	if c.HTTPTimeoutSeconds < 1 {
		return &ConfigError{Field: "http-timeout", Value: strconv.Itoa(c.HTTPTimeoutSeconds), Message: "must be at least 1"}
	}

	if c.RestoreReloadDelay < 0 {
		return &ConfigError{Field: "reload-delay", Value: c.RestoreReloadDelay.String(), Message: "must not be negative"}
	}

	if strings.TrimSpace(c.AppName) == "" {
		return &ConfigError{Field: "app-name", Value: c.AppName, Message: "must not be empty"}
	}

	switch strings.ToLower(c.NotifyMinSeverity) {
	case "", "info", "success", "warning", "error":
	default:
		return &ConfigError{Field: "notify-min-severity", Value: c.NotifyMinSeverity, Message: "must be one of info, success, warning, error"}
	}

	return nil
}

// HTTPTimeout returns the API request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// EffectiveLogLevel returns "debug" when --debug is set, otherwise LogLevel
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "' with value '" + e.Value + "': " + e.Message
}

// Helper functions
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDefaultBackupDir() string {
	homeDir, _ := os.UserHomeDir()
	if homeDir != "" {
		return filepath.Join(homeDir, "waterx_backups")
	}
	return filepath.Join(os.TempDir(), "waterx_backups")
}

func getDefaultSessionFile() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "waterx", "session.json")
	}
	return filepath.Join(os.TempDir(), "waterx-session.json")
}
