package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store driver names accepted by STORE_DRIVER.
const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Telegram TelegramConfig
	Sweep    SweepConfig
	HatchLog HatchLogConfig
	// DeletePolicy selects the tray retention rule: "strict" permits deleting
	// removed trays only, "threshold" also permits trays past the warning
	// threshold.
	DeletePolicy string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects and configures the tray store backend.
type StoreConfig struct {
	Driver string
	URI    string
	DBName string
}

// TelegramConfig contains credentials for the Telegram Bot API. Both fields
// may be empty, in which case notifications are disabled rather than the
// service refusing to start.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

// SweepConfig holds the notification sweep schedule.
type SweepConfig struct {
	CronSchedule string
}

// HatchLogConfig configures the optional Google Sheets hatch-log archive.
type HatchLogConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver: getenvWithDefault("STORE_DRIVER", StoreDriverMongo),
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "hatchery"),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			BaseURL:  getenvWithDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		},
		Sweep: SweepConfig{
			CronSchedule: getenvWithDefault("SWEEP_CRON_SCHEDULE", "@every 1h"),
		},
		HatchLog: HatchLogConfig{
			CredentialsPath: os.Getenv("HATCH_LOG_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("HATCH_LOG_SPREADSHEET_ID"),
		},
		DeletePolicy: getenvWithDefault("DELETE_POLICY", "strict"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. Telegram
// credentials are deliberately not required: their absence disables
// notifications instead of failing startup.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Store.URI == "" {
			return errors.New("MONGODB_URI must be provided when STORE_DRIVER is mongo")
		}
		if c.Store.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case StoreDriverMemory:
		// Nothing to validate; the in-memory store needs no settings.
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Telegram.BaseURL == "" {
		return errors.New("TELEGRAM_BASE_URL must not be empty")
	}

	if c.Sweep.CronSchedule == "" {
		return errors.New("SWEEP_CRON_SCHEDULE must be provided")
	}

	if c.DeletePolicy != "strict" && c.DeletePolicy != "threshold" {
		return fmt.Errorf("unsupported DELETE_POLICY %q", c.DeletePolicy)
	}

	if c.HatchLog.SpreadsheetID != "" && c.HatchLog.CredentialsPath == "" {
		return errors.New("HATCH_LOG_CREDENTIALS_PATH must be provided with HATCH_LOG_SPREADSHEET_ID")
	}

	return nil
}

// NotificationsEnabled reports whether Telegram credentials are present.
func (c *Config) NotificationsEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// HatchLogEnabled reports whether the Sheets archive is configured.
func (c *Config) HatchLogEnabled() bool {
	return c.HatchLog.SpreadsheetID != "" && c.HatchLog.CredentialsPath != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
