package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rewired-gh/teamwrapped/internal/freshness"
	"github.com/rewired-gh/teamwrapped/internal/logger"
	"github.com/rewired-gh/teamwrapped/internal/models"
	"github.com/rewired-gh/teamwrapped/internal/schema"
	"github.com/rewired-gh/teamwrapped/internal/server"
	"github.com/rewired-gh/teamwrapped/internal/slides"
)

// errStale is returned by `check` so scripts see a non-zero exit.
var errStale = errors.New("snapshot is stale")

func newIngestCmd(a *app) *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Validate a snapshot file and add it to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage(store)

			ctx := cmd.Context()
			if err := store.Save(ctx, snap); err != nil {
				return err
			}
			logger.Info("Ingested snapshot %s from %s", snap.ID, snapshotPath)

			removed, err := store.Rotate(ctx)
			if err != nil {
				logger.Warn("Failed to rotate snapshots: %v", err)
			} else if removed > 0 {
				logger.Debug("Rotated out %d old snapshots", removed)
			}

			fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot JSON file")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var snapshotPath, outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the slide deck as JSON",
		Long: `Build the slide deck from a snapshot file, or from the latest stored
snapshot when --snapshot is not given. The deck is written to --out, or to
stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var snap *models.Snapshot
			var err error
			if snapshotPath != "" {
				snap, err = readSnapshot(snapshotPath)
			} else {
				snap, err = a.latestSnapshot(ctx)
			}
			if err != nil {
				return err
			}

			deck := &a.cfg.Deck
			if reason, stale := freshness.IsStale(deck, snap.CreatedOn); stale {
				logger.Warn("Snapshot %s is stale: %s", snap.ID, reason)
			}

			generated, err := slides.Generate(snap, deck)
			if err != nil {
				return fmt.Errorf("failed to generate slides: %w", err)
			}
			summary := slides.Summarize(generated)
			logger.Info("Generated %d slides (about %v)", summary.Total, summary.Runtime)

			data, err := json.MarshalIndent(generated, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal slides: %w", err)
			}

			if outPath == "" {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(data)); err != nil {
					return err
				}
			} else {
				if err := writeFileAtomic(outPath, data); err != nil {
					return err
				}
				logger.Info("Slides written to %s", outPath)
			}

			if tg := a.telegramClient(); tg != nil {
				if err := tg.SendDeckSummary(ctx, deck.TeamName, deck.PeriodName, snap.ID, summary); err != nil {
					logger.Warn("Failed to send deck summary to Telegram: %v", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot JSON file (default: latest stored snapshot)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: stdout)")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the latest snapshot is fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := a.latestSnapshot(ctx)
			if err != nil {
				return err
			}

			reason, stale := freshness.IsStale(&a.cfg.Deck, snap.CreatedOn)
			if !stale {
				fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s is current\n", snap.ID)
				return nil
			}

			if tg := a.telegramClient(); tg != nil {
				if err := tg.SendStaleAlert(ctx, a.cfg.Deck.TeamName, snap.ID, reason); err != nil {
					logger.Warn("Failed to send stale alert to Telegram: %v", err)
				}
			}
			return fmt.Errorf("%w: %s: %s", errStale, snap.ID, reason)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve decks to the slideshow player over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage(store)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(store, &a.cfg.Deck)
			if err := server.Run(ctx, srv, a.cfg.Server.ListenAddr, a.cfg.Server.ShutdownTimeout); err != nil {
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest ingest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage(store)

			infos, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "no snapshots stored")
				return nil
			}
			for _, info := range infos {
				created := "unknown"
				if info.CreatedOn != nil {
					created = info.CreatedOn.Format(time.DateTime)
				}
				fmt.Fprintf(out, "%s  created %s  ingested %s\n", info.ID, created, humanize.Time(info.IngestedAt))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of snapshots (default: storage.max_snapshots)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of snapshot files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := schema.Snapshot()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func (a *app) latestSnapshot(ctx context.Context) (*models.Snapshot, error) {
	store, err := a.openStorage()
	if err != nil {
		return nil, err
	}
	defer closeStorage(store)

	snap, err := store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return snap, nil
}

func readSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// writeFileAtomic writes to a temp file next to path, then renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
