// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default alert delivery settings.
const (
	DefaultAlertHour    = 20
	DefaultAlertTZ      = "Asia/Bangkok"
	DefaultWarningDays  = 3
	DefaultMerchantCity = "Bangkok"
)

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken     string
	DatabaseURL          string
	GeminiAPIKey         string
	LogLevel             string
	WhitelistedUserIDs   []int64
	WhitelistedUsernames []string

	ExpiryAlertEnabled bool
	AlertHour          int
	AlertTimezone      string
	WarningWindowDays  int

	MerchantName string
	MerchantCity string

	TelemetryEnabled  bool
	TelemetryExporter string // "grpc", "http" or "stdout"
	TelemetryEndpoint string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		MerchantName:     os.Getenv("MERCHANT_NAME"),
		MerchantCity:     os.Getenv("MERCHANT_CITY"),
	}

	if cfg.MerchantCity == "" {
		cfg.MerchantCity = DefaultMerchantCity
	}

	cfg.ExpiryAlertEnabled = os.Getenv("EXPIRY_ALERT_ENABLED") == "true"
	cfg.AlertHour = DefaultAlertHour
	if hourStr := os.Getenv("ALERT_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			cfg.AlertHour = h
		}
	}
	cfg.AlertTimezone = DefaultAlertTZ
	if tz := os.Getenv("ALERT_TIMEZONE"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			cfg.AlertTimezone = tz
		}
	}
	cfg.WarningWindowDays = DefaultWarningDays
	if daysStr := os.Getenv("EXPIRY_WARNING_DAYS"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			cfg.WarningWindowDays = d
		}
	}

	cfg.TelemetryEnabled = os.Getenv("TELEMETRY_ENABLED") == "true"
	cfg.TelemetryExporter = os.Getenv("TELEMETRY_EXPORTER")
	if cfg.TelemetryExporter == "" {
		cfg.TelemetryExporter = "stdout"
	}
	cfg.TelemetryEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	cfg.WhitelistedUserIDs = parseIDList(os.Getenv("WHITELISTED_USER_IDS"))
	cfg.WhitelistedUsernames = parseUsernameList(os.Getenv("WHITELISTED_USERNAMES"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseIDList(raw string) []int64 {
	var ids []int64
	for idStr := range strings.SplitSeq(raw, ",") {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseUsernameList(raw string) []string {
	var names []string
	for username := range strings.SplitSeq(raw, ",") {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(username, "@"))
	}
	return names
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.WhitelistedUserIDs) == 0 && len(c.WhitelistedUsernames) == 0 {
		errs = append(errs, "at least one whitelisted user (WHITELISTED_USER_IDS or WHITELISTED_USERNAMES) is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsUserWhitelisted checks if a Telegram user ID or username is in the
// whitelist. Username comparison is case-insensitive.
func (c *Config) IsUserWhitelisted(userID int64, username string) bool {
	if slices.Contains(c.WhitelistedUserIDs, userID) {
		return true
	}
	if username != "" {
		username = strings.TrimPrefix(username, "@")
		for _, whitelisted := range c.WhitelistedUsernames {
			if strings.EqualFold(whitelisted, username) {
				return true
			}
		}
	}
	return false
}
