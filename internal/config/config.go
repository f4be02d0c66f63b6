package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Credentials
		RemoteAuth
		Audit
		Logging
	}

	Database struct {
		Name string
		Path string
	}
	Credentials struct {
		Path        string
		KeyFilePath string
	}
	RemoteAuth struct {
		BaseURL string
		Timeout time.Duration
	}
	Audit struct {
		Enabled       bool
		PruneSchedule string // Cron format: "0 3 * * *" = daily at 3am
		RetentionDays int    // Days to keep audit events (default: 30)
	}
	Logging struct {
		Level string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_name", DefaultDatabaseName)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("credentials_path", DefaultCredentialsPath)
	v.SetDefault("credentials_key_file", "")
	v.SetDefault("remote_auth_base_url", "https://api.klyp.app")
	v.SetDefault("remote_auth_timeout", "10s")

	// Audit defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_prune_schedule", "0 3 * * *") // Daily at 3am
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("log_level", "info")

	return &Config{
		Database: Database{
			Name: v.GetString("DATABASE_NAME"),
			Path: v.GetString("DATABASE_PATH"),
		},
		Credentials: Credentials{
			Path:        v.GetString("CREDENTIALS_PATH"),
			KeyFilePath: v.GetString("CREDENTIALS_KEY_FILE"),
		},
		RemoteAuth: RemoteAuth{
			BaseURL: v.GetString("REMOTE_AUTH_BASE_URL"),
			Timeout: v.GetDuration("REMOTE_AUTH_TIMEOUT"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			PruneSchedule: v.GetString("AUDIT_PRUNE_SCHEDULE"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
