package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/logger"
	"github.com/rewired-gh/teamwrapped/internal/storage"
	"github.com/rewired-gh/teamwrapped/internal/telegram"
)

// Version information, injected at build time via ldflags.
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = "unknown"
)

// app carries what every subcommand needs after the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "teamwrapped",
		Short: "Turn team analytics into a year-in-review slide deck",
		Long: `teamwrapped turns an aggregated analytics snapshot (Slack activity, new
members, life moments) into an ordered list of timed slides for the
slideshow player.

Snapshots are ingested into a local SQLite store. Decks are generated from
the latest snapshot, or from a snapshot file, and can be served over HTTP.`,
		Version:       fmt.Sprintf("%s (build %s, %s)", Version, Build, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "schema" {
				return nil
			}
			return a.loadConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "configs/config.yaml", "Path to configuration file")

	root.AddCommand(
		newIngestCmd(a),
		newGenerateCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newListCmd(a),
		newSchemaCmd(),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("Configuration loaded from %s", a.configPath)

	a.cfg = cfg
	return nil
}

func (a *app) openStorage() (*storage.Storage, error) {
	store, err := storage.New(a.cfg.Storage.MaxSnapshots, a.cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func closeStorage(store *storage.Storage) {
	if err := store.Close(); err != nil {
		logger.Error("Failed to close storage: %v", err)
	}
}

// telegramClient returns nil when notifications are disabled.
func (a *app) telegramClient() *telegram.Client {
	tc := a.cfg.Telegram
	if !tc.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil
	}
	client, err := telegram.NewClient(tc.BotToken, tc.ChatID, tc.MaxRetries, tc.RetryDelayBase)
	if err != nil {
		logger.Warn("Failed to initialize Telegram client: %v", err)
		return nil
	}
	return client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
