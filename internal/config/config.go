package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/rewired-gh/teamwrapped/internal/layout"
	"github.com/rewired-gh/teamwrapped/internal/ranking"
)

// Config represents the complete application configuration
type Config struct {
	Deck     DeckConfig     `mapstructure:"deck"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DeckConfig controls what goes into the slide deck
type DeckConfig struct {
	TeamName    string            `mapstructure:"team_name"`
	PeriodName  string            `mapstructure:"period_name"`
	From        time.Time         `mapstructure:"from"`
	To          time.Time         `mapstructure:"to"`
	NewMembers  NewMembersConfig  `mapstructure:"new_members"`
	LifeMoments LifeMomentsConfig `mapstructure:"life_moments"`
	Slack       SlackConfig       `mapstructure:"slack"`
}

// NewMembersConfig holds the welcome section settings.
// Threshold is the member count above which the paged layout is used.
type NewMembersConfig struct {
	Enabled   bool        `mapstructure:"enabled"`
	Layout    layout.Mode `mapstructure:"layout"`
	Threshold int         `mapstructure:"threshold"`
	PageSize  int         `mapstructure:"page_size"`
}

// LifeMomentsConfig holds the life moments section settings
type LifeMomentsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SlackConfig holds the channel activity section settings.
// Channels is ordered; slides follow this order.
type SlackConfig struct {
	Enabled            bool        `mapstructure:"enabled"`
	Channels           []string    `mapstructure:"channels"`
	IgnoreBots         []string    `mapstructure:"ignore_bots"`
	OneStoryPerChannel layout.Mode `mapstructure:"one_story_per_channel"`
	ChannelThreshold   int         `mapstructure:"channel_threshold"`
	BufoPrefix         string      `mapstructure:"bufo_prefix"`
	TopPosters         int         `mapstructure:"top_posters"`
	TopEmoji           int         `mapstructure:"top_emoji"`
	TopReactions       int         `mapstructure:"top_reactions"`
}

// StorageConfig holds the snapshot store configuration
type StorageConfig struct {
	DBPath       string `mapstructure:"db_path"`
	MaxSnapshots int    `mapstructure:"max_snapshots"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	// TEAMWRAPPED_DECK_TEAM_NAME overrides deck.team_name, etc.
	v.SetEnvPrefix("TEAMWRAPPED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToDateHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)
}

// stringToDateHookFunc accepts "2006-01-02" as well as RFC 3339 timestamps.
func stringToDateHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(time.Time{}) {
			return data, nil
		}
		return ParseDate(reflect.ValueOf(data).String())
	}
}

// ParseDate parses a config date. Date-only values are midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Deck defaults
	v.SetDefault("deck.team_name", "the team")
	v.SetDefault("deck.period_name", "this year")
	v.SetDefault("deck.new_members.enabled", true)
	v.SetDefault("deck.new_members.layout", "auto")
	v.SetDefault("deck.new_members.threshold", 5)
	v.SetDefault("deck.new_members.page_size", 4)
	v.SetDefault("deck.life_moments.enabled", true)
	v.SetDefault("deck.slack.enabled", true)
	v.SetDefault("deck.slack.one_story_per_channel", "auto")
	v.SetDefault("deck.slack.channel_threshold", 3)
	v.SetDefault("deck.slack.bufo_prefix", "bufo")
	v.SetDefault("deck.slack.top_posters", 3)
	v.SetDefault("deck.slack.top_emoji", ranking.DefaultTopN)
	v.SetDefault("deck.slack.top_reactions", 6)

	// Storage defaults
	v.SetDefault("storage.db_path", "./data/teamwrapped.db")
	v.SetDefault("storage.max_snapshots", 20)

	// Server defaults
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "5s")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if err := c.Deck.Validate(); err != nil {
		return err
	}

	// Validate Storage config
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if c.Storage.MaxSnapshots < 1 {
		return fmt.Errorf("storage.max_snapshots must be at least 1")
	}

	// Validate Server config
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Validate checks the deck settings. Structural problems here abort generation.
func (d *DeckConfig) Validate() error {
	if d.To.IsZero() {
		return fmt.Errorf("deck.to is required")
	}
	if !d.From.IsZero() && d.To.Before(d.From) {
		return fmt.Errorf("deck.to must not be before deck.from")
	}

	if !d.NewMembers.Layout.Valid() {
		return fmt.Errorf("deck.new_members.layout must be one of: always, never, auto")
	}
	if d.NewMembers.Threshold < 0 {
		return fmt.Errorf("deck.new_members.threshold must not be negative")
	}
	if d.NewMembers.PageSize < 1 {
		return fmt.Errorf("deck.new_members.page_size must be at least 1")
	}

	if !d.Slack.OneStoryPerChannel.Valid() {
		return fmt.Errorf("deck.slack.one_story_per_channel must be one of: always, never, auto")
	}
	if d.Slack.ChannelThreshold < 0 {
		return fmt.Errorf("deck.slack.channel_threshold must not be negative")
	}
	if d.Slack.BufoPrefix == "" {
		return fmt.Errorf("deck.slack.bufo_prefix is required")
	}
	if d.Slack.TopPosters < 1 || d.Slack.TopEmoji < 1 || d.Slack.TopReactions < 1 {
		return fmt.Errorf("deck.slack top_posters, top_emoji and top_reactions must be at least 1")
	}
	seen := make(map[string]bool, len(d.Slack.Channels))
	for _, ch := range d.Slack.Channels {
		if ch == "" {
			return fmt.Errorf("deck.slack.channels must not contain empty names")
		}
		if seen[ch] {
			return fmt.Errorf("deck.slack.channels lists %q twice", ch)
		}
		seen[ch] = true
	}

	return nil
}
