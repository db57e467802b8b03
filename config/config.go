package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"supportscan/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Session Geometry
	AnchorHour        int           // Local hour-of-day marking a session boundary (0-23)
	UTCOffsetHours    int           // Shift from the source clock to the local reference clock
	SessionLength     time.Duration // Exact spacing two boundaries must have (normally 24h)
	PlausibilityRatio float64       // Support/reference distance filter (e.g., 0.5 for 50%)

	// Instruments and Candidates
	Symbols   []string // Instruments to process
	Indicator string   // Support column for single-indicator backtest mode
	TopN      int      // Ranking truncation for scan mode

	// Collector
	KlineInterval     string        // Exchange kline interval backing snapshots (e.g., "1h")
	CollectRetries    int           // Attempts before the collector gives up
	CollectRetryDelay time.Duration // Delay between collector attempts

	// Binance API (public market data works without keys)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Telegram delivery (optional; reports stay on stdout when unset)
	TelegramBotToken string
	TelegramChatID   string

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// NotifyEnabled reports whether Telegram delivery is configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Session Geometry
	cfg.AnchorHour, err = getEnvAsInt("ANCHOR_HOUR", 16)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ANCHOR_HOUR: %v", err))
	} else if cfg.AnchorHour < 0 || cfg.AnchorHour > 23 {
		errs = append(errs, "ANCHOR_HOUR must be between 0 and 23")
	}

	cfg.UTCOffsetHours, err = getEnvAsInt("UTC_OFFSET_HOURS", 8)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid UTC_OFFSET_HOURS: %v", err))
	} else if cfg.UTCOffsetHours < -12 || cfg.UTCOffsetHours > 14 {
		errs = append(errs, "UTC_OFFSET_HOURS must be between -12 and 14")
	}

	sessionHours, err := getEnvAsInt("SESSION_LENGTH_HOURS", 24)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SESSION_LENGTH_HOURS: %v", err))
	} else if sessionHours <= 0 {
		errs = append(errs, "SESSION_LENGTH_HOURS must be positive")
	}
	cfg.SessionLength = time.Duration(sessionHours) * time.Hour

	cfg.PlausibilityRatio, err = getEnvAsFloat("PLAUSIBILITY_RATIO", 0.5)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid PLAUSIBILITY_RATIO: %v", err))
	} else if cfg.PlausibilityRatio <= 0 {
		errs = append(errs, "PLAUSIBILITY_RATIO must be positive")
	}

	// Instruments and Candidates
	cfg.Symbols = splitList(getEnv("SYMBOLS", "BTCUSDT,ETHUSDT"))
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must list at least one instrument")
	}

	cfg.Indicator = getEnv("INDICATOR", "donchian_lower")
	if cfg.Indicator == "" {
		errs = append(errs, "INDICATOR must be set")
	}

	cfg.TopN, err = getEnvAsInt("TOP_N", 40)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TOP_N: %v", err))
	} else if cfg.TopN <= 0 {
		errs = append(errs, "TOP_N must be positive")
	}

	// Collector
	cfg.KlineInterval = getEnv("KLINE_INTERVAL", "1h")

	cfg.CollectRetries, err = getEnvAsInt("COLLECT_RETRIES", 3)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid COLLECT_RETRIES: %v", err))
	} else if cfg.CollectRetries <= 0 {
		errs = append(errs, "COLLECT_RETRIES must be positive")
	}

	retryDelaySeconds, err := getEnvAsInt("COLLECT_RETRY_DELAY_SECONDS", 10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid COLLECT_RETRY_DELAY_SECONDS: %v", err))
	} else if retryDelaySeconds <= 0 {
		errs = append(errs, "COLLECT_RETRY_DELAY_SECONDS must be positive")
	}
	cfg.CollectRetryDelay = time.Duration(retryDelaySeconds) * time.Second

	// Binance API (optional; klines are a public endpoint)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet, err = getEnvAsBool("IS_TESTNET", false)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid IS_TESTNET: %v", err))
	}

	// Telegram delivery (optional, but partial settings are a mistake)
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")
	if (cfg.TelegramBotToken == "") != (cfg.TelegramChatID == "") {
		errs = append(errs, "TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/history.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// The typed helpers fall back to the default only when the variable is unset.
// A set-but-malformed value is an error, so a typo fails validation instead of
// silently running with the default.

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}
