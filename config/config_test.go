package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BOT_TOKEN", "CHAT_ID", "PORT", "FEED_URLS", "SEND_HOURS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `
bot_token: "test-token"
chat_id: "-100123"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 10000 {
		t.Errorf("Port = %d, want %d", cfg.Port, 10000)
	}
	if len(cfg.FeedURLs) != len(DefaultFeedURLs) {
		t.Errorf("FeedURLs = %v, want %v", cfg.FeedURLs, DefaultFeedURLs)
	}
	if len(cfg.SendHours) != len(DefaultSendHours) {
		t.Errorf("SendHours = %v, want %v", cfg.SendHours, DefaultSendHours)
	}
	if cfg.UTCOffsetHours() != 5 {
		t.Errorf("UTCOffsetHours = %d, want %d", cfg.UTCOffsetHours(), 5)
	}
	if cfg.PerFeedLimit != 3 {
		t.Errorf("PerFeedLimit = %d, want %d", cfg.PerFeedLimit, 3)
	}
	if cfg.MaxHeadlines != 5 {
		t.Errorf("MaxHeadlines = %d, want %d", cfg.MaxHeadlines, 5)
	}
	if cfg.TranslateTo != "ru" {
		t.Errorf("TranslateTo = %q, want %q", cfg.TranslateTo, "ru")
	}
	if !cfg.Translate() {
		t.Error("Translate() = false, want true by default")
	}
	if cfg.BTCSymbol != "BTCUSDT" {
		t.Errorf("BTCSymbol = %q, want %q", cfg.BTCSymbol, "BTCUSDT")
	}
	if cfg.FetchTimeoutSecs != 10 {
		t.Errorf("FetchTimeoutSecs = %d, want %d", cfg.FetchTimeoutSecs, 10)
	}
	if cfg.PollIntervalSecs != 60 {
		t.Errorf("PollIntervalSecs = %d, want %d", cfg.PollIntervalSecs, 60)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadOverrideDefaults(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `
bot_token: "test-token"
chat_id: "@macro_radar"
port: 8080
feed_urls:
  - "https://example.com/a.xml"
  - "https://example.com/b.xml"
send_hours: [9, 18]
utc_offset_hours: 0
per_feed_limit: 2
max_headlines: 4
translate_to: "de"
translate_enabled: false
equity_symbol: "^NDX"
startup_message: true
log_level: "debug"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChatID != "@macro_radar" {
		t.Errorf("ChatID = %q, want %q", cfg.ChatID, "@macro_radar")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want %d", cfg.Port, 8080)
	}
	if len(cfg.FeedURLs) != 2 || cfg.FeedURLs[1] != "https://example.com/b.xml" {
		t.Errorf("FeedURLs = %v", cfg.FeedURLs)
	}
	if len(cfg.SendHours) != 2 || cfg.SendHours[0] != 9 || cfg.SendHours[1] != 18 {
		t.Errorf("SendHours = %v, want [9 18]", cfg.SendHours)
	}
	if cfg.UTCOffsetHours() != 0 {
		t.Errorf("UTCOffsetHours = %d, want 0", cfg.UTCOffsetHours())
	}
	if cfg.PerFeedLimit != 2 {
		t.Errorf("PerFeedLimit = %d, want %d", cfg.PerFeedLimit, 2)
	}
	if cfg.MaxHeadlines != 4 {
		t.Errorf("MaxHeadlines = %d, want %d", cfg.MaxHeadlines, 4)
	}
	if cfg.TranslateTo != "de" {
		t.Errorf("TranslateTo = %q, want %q", cfg.TranslateTo, "de")
	}
	if cfg.Translate() {
		t.Error("Translate() = true, want false")
	}
	if cfg.EquitySymbol != "^NDX" {
		t.Errorf("EquitySymbol = %q, want %q", cfg.EquitySymbol, "^NDX")
	}
	if !cfg.StartupMessage {
		t.Error("StartupMessage = false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("CHAT_ID", "42")
	t.Setenv("PORT", "9000")
	t.Setenv("FEED_URLS", "https://a.example/rss, https://b.example/rss")
	t.Setenv("SEND_HOURS", "6, 11")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BotToken != "env-token" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "env-token")
	}
	if cfg.ChatID != "42" {
		t.Errorf("ChatID = %q, want %q", cfg.ChatID, "42")
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want %d", cfg.Port, 9000)
	}
	if len(cfg.FeedURLs) != 2 || cfg.FeedURLs[0] != "https://a.example/rss" {
		t.Errorf("FeedURLs = %v", cfg.FeedURLs)
	}
	if len(cfg.SendHours) != 2 || cfg.SendHours[0] != 6 || cfg.SendHours[1] != 11 {
		t.Errorf("SendHours = %v, want [6 11]", cfg.SendHours)
	}
}

func TestEnvironmentVariableOverride(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `
bot_token: "file-token"
chat_id: "1"
port: 7000
`)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("PORT", "7001")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BotToken != "env-token" {
		t.Errorf("BotToken = %q, want %q (from env)", cfg.BotToken, "env-token")
	}
	if cfg.Port != 7001 {
		t.Errorf("Port = %d, want %d (from env)", cfg.Port, 7001)
	}
}

func TestLoadMissingBotToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_ID", "1")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing bot_token")
	}
}

func TestLoadMissingChatID(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "token")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing chat_id")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{"port not a number", map[string]string{"PORT": "http"}, ""},
		{"port out of range", map[string]string{"PORT": "70000"}, ""},
		{"send hour not a number", map[string]string{"SEND_HOURS": "6,noon"}, ""},
		{"send hour out of range", map[string]string{"SEND_HOURS": "24"}, ""},
		{"offset out of range", nil, "utc_offset_hours: 15\n"},
		{"negative feed limit", nil, "per_feed_limit: -1\n"},
		{"unknown log level", nil, "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BOT_TOKEN", "token")
			t.Setenv("CHAT_ID", "1")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}

			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	clearEnv(t)
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `invalid: yaml: content:`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("MACRO_RADAR_CONFIG", "")
	if path := GetConfigPath(); path != "" {
		t.Errorf("GetConfigPath() = %q, want empty", path)
	}

	t.Setenv("MACRO_RADAR_CONFIG", "/custom/config.yaml")
	if path := GetConfigPath(); path != "/custom/config.yaml" {
		t.Errorf("GetConfigPath() = %q, want %q", path, "/custom/config.yaml")
	}
}
