package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/teamwrapped/internal/layout"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoadAndValidate(t *testing.T) {
	content := `
deck:
  team_name: "Acme"
  period_name: "2024"
  from: 2024-01-01
  to: 2024-12-31
  new_members:
    layout: always
    page_size: 3
  slack:
    channels:
      - general
      - random
    ignore_bots:
      - github
      - "*-bot"
    one_story_per_channel: never

telegram:
  bot_token: "test_token"
  chat_id: "test_chat_id"
  enabled: true
  retry_delay_base: 2s

storage:
  db_path: "./data/test.db"

logging:
  level: "debug"
  format: "json"
`
	cfg, err := Load(writeTempConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Deck.TeamName != "Acme" {
		t.Errorf("Unexpected team name: %s", cfg.Deck.TeamName)
	}

	wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.Deck.From.Equal(wantFrom) {
		t.Errorf("Unexpected from: %v", cfg.Deck.From)
	}
	wantTo := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if !cfg.Deck.To.Equal(wantTo) {
		t.Errorf("Unexpected to: %v", cfg.Deck.To)
	}

	if cfg.Deck.NewMembers.Layout != layout.Always {
		t.Errorf("Unexpected new members layout: %s", cfg.Deck.NewMembers.Layout)
	}
	if cfg.Deck.NewMembers.PageSize != 3 {
		t.Errorf("Unexpected page size: %d", cfg.Deck.NewMembers.PageSize)
	}
	if cfg.Deck.Slack.OneStoryPerChannel != layout.Never {
		t.Errorf("Unexpected channel layout: %s", cfg.Deck.Slack.OneStoryPerChannel)
	}
	if len(cfg.Deck.Slack.Channels) != 2 || cfg.Deck.Slack.Channels[0] != "general" {
		t.Errorf("Unexpected channels: %v", cfg.Deck.Slack.Channels)
	}
	if cfg.Telegram.RetryDelayBase != 2*time.Second {
		t.Errorf("Unexpected retry delay: %v", cfg.Telegram.RetryDelayBase)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "deck:\n  team_name: \"Acme\"\n  to: 2024-12-31\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Deck.NewMembers.Threshold != 5 {
		t.Errorf("Expected new member threshold 5, got %d", cfg.Deck.NewMembers.Threshold)
	}
	if cfg.Deck.NewMembers.PageSize != 4 {
		t.Errorf("Expected page size 4, got %d", cfg.Deck.NewMembers.PageSize)
	}
	if cfg.Deck.NewMembers.Layout != layout.Auto {
		t.Errorf("Expected auto layout, got %s", cfg.Deck.NewMembers.Layout)
	}
	if cfg.Deck.Slack.ChannelThreshold != 3 {
		t.Errorf("Expected channel threshold 3, got %d", cfg.Deck.Slack.ChannelThreshold)
	}
	if cfg.Deck.Slack.BufoPrefix != "bufo" {
		t.Errorf("Expected bufo prefix, got %q", cfg.Deck.Slack.BufoPrefix)
	}
	if cfg.Deck.Slack.TopPosters != 3 || cfg.Deck.Slack.TopEmoji != 7 || cfg.Deck.Slack.TopReactions != 6 {
		t.Errorf("Unexpected top-N defaults: %+v", cfg.Deck.Slack)
	}
	if cfg.Storage.MaxSnapshots != 20 {
		t.Errorf("Expected 20 max snapshots, got %d", cfg.Storage.MaxSnapshots)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Unexpected listen addr: %s", cfg.Server.ListenAddr)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadRequiresPeriodEnd(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "deck:\n  team_name: \"Acme\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Deck.To.IsZero() {
		t.Fatalf("Expected no default for deck.to, got %v", cfg.Deck.To)
	}

	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "deck.to is required") {
		t.Errorf("Expected missing deck.to to fail validation, got %v", err)
	}
}

func TestLoadRejectsUnknownLayout(t *testing.T) {
	content := `
deck:
  new_members:
    layout: sometimes
`
	if _, err := Load(writeTempConfig(t, content)); err == nil {
		t.Error("Expected error for unknown layout mode")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TEAMWRAPPED_DECK_TEAM_NAME", "Globex")

	cfg, err := Load(writeTempConfig(t, "deck:\n  team_name: \"Acme\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Deck.TeamName != "Globex" {
		t.Errorf("Expected env override, got %s", cfg.Deck.TeamName)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func validConfig() *Config {
	return &Config{
		Deck: DeckConfig{
			TeamName:   "Acme",
			PeriodName: "2024",
			From:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:         time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			NewMembers: NewMembersConfig{
				Enabled:   true,
				Layout:    layout.Auto,
				Threshold: 5,
				PageSize:  4,
			},
			Slack: SlackConfig{
				Enabled:            true,
				Channels:           []string{"general"},
				OneStoryPerChannel: layout.Auto,
				ChannelThreshold:   3,
				BufoPrefix:         "bufo",
				TopPosters:         3,
				TopEmoji:           7,
				TopReactions:       6,
			},
		},
		Storage: StorageConfig{
			DBPath:       "./data/test.db",
			MaxSnapshots: 20,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "missing telegram token when enabled",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: true, ChatID: "123"}
			},
			wantErr: true,
		},
		{
			name: "missing telegram chat id when enabled",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: true, BotToken: "token"}
			},
			wantErr: true,
		},
		{
			name: "missing period end",
			mutate: func(c *Config) {
				c.Deck.To = time.Time{}
			},
			wantErr: true,
		},
		{
			name: "period ends before it starts",
			mutate: func(c *Config) {
				c.Deck.To = c.Deck.From.AddDate(0, 0, -1)
			},
			wantErr: true,
		},
		{
			name: "zero page size",
			mutate: func(c *Config) {
				c.Deck.NewMembers.PageSize = 0
			},
			wantErr: true,
		},
		{
			name: "negative channel threshold",
			mutate: func(c *Config) {
				c.Deck.Slack.ChannelThreshold = -1
			},
			wantErr: true,
		},
		{
			name: "unknown layout mode",
			mutate: func(c *Config) {
				c.Deck.Slack.OneStoryPerChannel = layout.Mode("sometimes")
			},
			wantErr: true,
		},
		{
			name: "empty bufo prefix",
			mutate: func(c *Config) {
				c.Deck.Slack.BufoPrefix = ""
			},
			wantErr: true,
		},
		{
			name: "zero top emoji",
			mutate: func(c *Config) {
				c.Deck.Slack.TopEmoji = 0
			},
			wantErr: true,
		},
		{
			name: "duplicate channel",
			mutate: func(c *Config) {
				c.Deck.Slack.Channels = []string{"general", "general"}
			},
			wantErr: true,
		},
		{
			name: "missing db path",
			mutate: func(c *Config) {
				c.Storage.DBPath = ""
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			mutate: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-12-31", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"2024-12-31T18:30:00Z", time.Date(2024, 12, 31, 18, 30, 0, 0, time.UTC), false},
		{"", time.Time{}, false},
		{"31/12/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestIsBot(t *testing.T) {
	s := SlackConfig{IgnoreBots: []string{"github", "*-bot", "[bad"}}

	tests := []struct {
		name string
		want bool
	}{
		{"github", true},
		{"GitHub", true},
		{"deploy-bot", true},
		{"Deploy-Bot", true},
		{"alice", false},
		{"[bad", true},
		{"bad", false},
	}

	for _, tt := range tests {
		if got := s.IsBot(tt.name); got != tt.want {
			t.Errorf("IsBot(%q) = %v, expected %v", tt.name, got, tt.want)
		}
	}

	if (SlackConfig{}).IsBot("github") {
		t.Error("Expected no bots with an empty ignore list")
	}
}
