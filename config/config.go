package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Fetch modes. Browser mode matches the production deployment: the pages
// being watched mostly populate stock data client-side.
const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// Config holds the application settings.
type Config struct {
	BotToken      string
	AdminID       int64
	CheckInterval time.Duration
	DataDir       string
	FetchMode     string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN not set")
	}

	cfg := &Config{
		BotToken:      token,
		CheckInterval: 30 * time.Second,
		DataDir:       "./data",
		FetchMode:     FetchModeBrowser,
	}

	// The single operator allowed to drive the bot.
	if adminStr := os.Getenv("ADMIN_ID"); adminStr != "" {
		adminID, err := strconv.ParseInt(adminStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ID %q", adminStr)
		}
		cfg.AdminID = adminID
	}

	if intervalStr := os.Getenv("CHECK_INTERVAL_SECONDS"); intervalStr != "" {
		if parsed, err := strconv.Atoi(intervalStr); err == nil && parsed > 0 {
			cfg.CheckInterval = time.Duration(parsed) * time.Second
		}
	}

	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	if mode := os.Getenv("FETCH_MODE"); mode != "" {
		if mode != FetchModeHTTP && mode != FetchModeBrowser {
			return nil, fmt.Errorf("invalid FETCH_MODE %q (want %s or %s)", mode, FetchModeHTTP, FetchModeBrowser)
		}
		cfg.FetchMode = mode
	}

	return cfg, nil
}
