package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultUTCOffsetHours = 5

// DefaultFeedURLs are polled when no feeds are configured.
var DefaultFeedURLs = []string{
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://cointelegraph.com/rss",
	"https://feeds.bbci.co.uk/news/business/rss.xml",
}

// DefaultSendHours are the local hours (at the configured offset) a digest goes out.
var DefaultSendHours = []int{6, 11, 16, 21}

// Config holds all application configuration.
type Config struct {
	BotToken         string   `yaml:"bot_token"`
	ChatID           string   `yaml:"chat_id"`
	Port             int      `yaml:"port"`
	FeedURLs         []string `yaml:"feed_urls"`
	SendHours        []int    `yaml:"send_hours"`
	UTCOffset        *int     `yaml:"utc_offset_hours"`
	PerFeedLimit     int      `yaml:"per_feed_limit"`
	MaxHeadlines     int      `yaml:"max_headlines"`
	TranslateTo      string   `yaml:"translate_to"`
	TranslateEnabled *bool    `yaml:"translate_enabled"`
	BTCSymbol        string   `yaml:"btc_symbol"`
	EquitySymbol     string   `yaml:"equity_symbol"`
	CurrencySymbol   string   `yaml:"currency_symbol"`
	BinanceURL       string   `yaml:"binance_url"`
	QuoteURL         string   `yaml:"quote_url"`
	TranslateURL     string   `yaml:"translate_url"`
	TelegramAPIURL   string   `yaml:"telegram_api_url"`
	FetchTimeoutSecs int      `yaml:"fetch_timeout_secs"`
	PollIntervalSecs int      `yaml:"poll_interval_secs"`
	StartupMessage   bool     `yaml:"startup_message"`
	LogLevel         string   `yaml:"log_level"`
}

// Load reads configuration from an optional YAML file, applies defaults and
// environment overrides, and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := applyEnvironmentOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path from environment, or "" for env-only.
func GetConfigPath() string {
	return os.Getenv("MACRO_RADAR_CONFIG")
}

// UTCOffsetHours returns the fixed offset used for scheduling and timestamps.
func (c *Config) UTCOffsetHours() int {
	if c.UTCOffset == nil {
		return defaultUTCOffsetHours
	}
	return *c.UTCOffset
}

// Translate reports whether headline translation is enabled.
func (c *Config) Translate() bool {
	return c.TranslateEnabled == nil || *c.TranslateEnabled
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 10000
	}
	if len(cfg.FeedURLs) == 0 {
		cfg.FeedURLs = append([]string(nil), DefaultFeedURLs...)
	}
	if len(cfg.SendHours) == 0 {
		cfg.SendHours = append([]int(nil), DefaultSendHours...)
	}
	if cfg.UTCOffset == nil {
		offset := defaultUTCOffsetHours
		cfg.UTCOffset = &offset
	}
	if cfg.PerFeedLimit == 0 {
		cfg.PerFeedLimit = 3
	}
	if cfg.MaxHeadlines == 0 {
		cfg.MaxHeadlines = 5
	}
	if cfg.TranslateTo == "" {
		cfg.TranslateTo = "ru"
	}
	if cfg.BTCSymbol == "" {
		cfg.BTCSymbol = "BTCUSDT"
	}
	if cfg.EquitySymbol == "" {
		cfg.EquitySymbol = "^IXIC"
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "DX-Y.NYB"
	}
	if cfg.BinanceURL == "" {
		cfg.BinanceURL = "https://api.binance.com"
	}
	if cfg.QuoteURL == "" {
		cfg.QuoteURL = "https://query1.finance.yahoo.com"
	}
	if cfg.TranslateURL == "" {
		cfg.TranslateURL = "https://translate.googleapis.com"
	}
	if cfg.TelegramAPIURL == "" {
		cfg.TelegramAPIURL = "https://api.telegram.org"
	}
	if cfg.FetchTimeoutSecs == 0 {
		cfg.FetchTimeoutSecs = 10
	}
	if cfg.PollIntervalSecs == 0 {
		cfg.PollIntervalSecs = 60
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(cfg *Config) error {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.BotToken = v
	}
	if v := os.Getenv("CHAT_ID"); v != "" {
		cfg.ChatID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be a number, got %q", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("FEED_URLS"); v != "" {
		cfg.FeedURLs = splitList(v)
	}
	if v := os.Getenv("SEND_HOURS"); v != "" {
		hours, err := parseHours(v)
		if err != nil {
			return err
		}
		cfg.SendHours = hours
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.BotToken == "" {
		return fmt.Errorf("bot_token is required")
	}
	if cfg.ChatID == "" {
		return fmt.Errorf("chat_id is required")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", cfg.Port)
	}
	for _, h := range cfg.SendHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("send_hours must be in 0-23, got %d", h)
		}
	}
	if offset := cfg.UTCOffsetHours(); offset < -12 || offset > 14 {
		return fmt.Errorf("utc_offset_hours must be in -12..14, got %d", offset)
	}
	if cfg.PerFeedLimit < 1 {
		return fmt.Errorf("per_feed_limit must be positive, got %d", cfg.PerFeedLimit)
	}
	if cfg.MaxHeadlines < 1 {
		return fmt.Errorf("max_headlines must be positive, got %d", cfg.MaxHeadlines)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseHours(s string) ([]int, error) {
	var hours []int
	for _, part := range splitList(s) {
		h, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("SEND_HOURS entry %q is not a number", part)
		}
		hours = append(hours, h)
	}
	return hours, nil
}
