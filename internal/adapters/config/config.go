package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Analytics  AnalyticsConfig  `envconfig:"ANALYTICS"`
	News       NewsConfig       `envconfig:"NEWS"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
	Database   DatabaseConfig   `envconfig:"DATABASE"`
	Telegram   TelegramConfig   `envconfig:"TELEGRAM"`
	Logging    LoggingConfig    `envconfig:"LOGGING"`
}

// AnalyticsConfig carries indicator defaults and the event threshold.
// These used to be implicit per-call constants; they are threaded through
// explicitly so two callers can run with different settings.
type AnalyticsConfig struct {
	MALength       int     `envconfig:"ANALYTICS_MA_LENGTH" default:"20"`
	RSILength      int     `envconfig:"ANALYTICS_RSI_LENGTH" default:"14"`
	ROCLength      int     `envconfig:"ANALYTICS_ROC_LENGTH" default:"14"`
	BBPLength      int     `envconfig:"ANALYTICS_BBP_LENGTH" default:"20"`
	BBPBandWidth   float64 `envconfig:"ANALYTICS_BBP_BAND_WIDTH" default:"2.0"`
	EventThreshold float64 `envconfig:"ANALYTICS_EVENT_THRESHOLD" default:"5.0"`
}

// NewsConfig represents news gateway configuration
type NewsConfig struct {
	BaseURL     string        `envconfig:"NEWS_BASE_URL" default:"https://eodhd.com"`
	APIToken    string        `envconfig:"NEWS_API_TOKEN" required:"false"`
	Timeout     time.Duration `envconfig:"NEWS_TIMEOUT" default:"10s"`
	Concurrency int           `envconfig:"NEWS_CONCURRENCY" default:"4"`
}

// ClickHouseConfig represents price-bar store connection parameters
type ClickHouseConfig struct {
	DSN string `envconfig:"CLICKHOUSE_DSN" default:"clickhouse://localhost:9000/insight"`
}

// DatabaseConfig represents Postgres connection parameters for the
// sentiment-record store. Optional: leave User empty to disable persistence.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"insight"`
	User     string `envconfig:"DB_USER" required:"false"`
	Password string `envconfig:"DB_PASSWORD" required:"false"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// GetDSN returns Postgres connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode)
}

// Enabled reports whether sentiment persistence is configured
func (c *DatabaseConfig) Enabled() bool {
	return c.User != ""
}

// TelegramConfig represents optional event alerting configuration
type TelegramConfig struct {
	BotToken      string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID        int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
	AlertOnEvents bool   `envconfig:"TELEGRAM_ALERT_ON_EVENTS" default:"true"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Analytics.MALength < 1 || c.Analytics.RSILength < 1 ||
		c.Analytics.ROCLength < 1 || c.Analytics.BBPLength < 1 {
		return fmt.Errorf("indicator lengths must be positive integers")
	}
	if c.Analytics.BBPBandWidth <= 0 {
		return fmt.Errorf("bbp_band_width must be positive")
	}

	if c.News.Timeout <= 0 {
		return fmt.Errorf("news timeout must be positive")
	}
	if c.News.Concurrency < 1 {
		return fmt.Errorf("news concurrency must be at least 1")
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat_id is required when bot token is set")
	}

	return nil
}
