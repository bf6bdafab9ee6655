// Package storage keeps ingested analytics snapshots in a SQLite database.
//
// Each snapshot is stored as its JSON document alongside the columns needed to
// find it again: the id, the creation time reported by the data collector and
// the time it was ingested. The newest ingest is the one decks are built from.
// Rotate bounds the table to the most recent snapshots.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rewired-gh/teamwrapped/internal/models"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	created_on  INTEGER,
	ingested_at INTEGER NOT NULL,
	payload     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ingested_at ON snapshots (ingested_at);
`

// Storage is a SQLite-backed snapshot store. It is safe for concurrent use.
type Storage struct {
	db           *sql.DB
	maxSnapshots int
	now          func() time.Time
}

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	ID         string     `json:"id"`
	CreatedOn  *time.Time `json:"createdOn,omitempty"`
	IngestedAt time.Time  `json:"ingestedAt"`
}

// New opens (creating if needed) the database at dbPath and applies the schema.
// Use ":memory:" for a throwaway store.
func New(maxSnapshots int, dbPath string) (*Storage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Storage{
		db:           db,
		maxSnapshots: maxSnapshots,
		now:          time.Now,
	}, nil
}

// Close releases the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Save validates and stores a snapshot, assigning an id when it has none.
// Saving an existing id replaces it and marks it as the newest ingest.
func (s *Storage) Save(ctx context.Context, snap *models.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	var createdOn sql.NullInt64
	if snap.CreatedOn != nil {
		createdOn = sql.NullInt64{Int64: snap.CreatedOn.UnixNano(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, created_on, ingested_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			created_on = excluded.created_on,
			ingested_at = excluded.ingested_at,
			payload = excluded.payload`,
		snap.ID, createdOn, s.now().UnixNano(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Get retrieves a snapshot by id
func (s *Storage) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return snap, nil
}

// Latest returns the most recently ingested snapshot
func (s *Storage) Latest(ctx context.Context) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY ingested_at DESC, rowid DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("latest: %w", err)
	}
	return snap, nil
}

func scanSnapshot(row *sql.Row) (*models.Snapshot, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// List returns up to limit snapshots, newest ingest first
func (s *Storage) List(ctx context.Context, limit int) ([]SnapshotInfo, error) {
	if limit <= 0 {
		limit = s.maxSnapshots
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_on, ingested_at FROM snapshots
		ORDER BY ingested_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]SnapshotInfo, 0, limit)
	for rows.Next() {
		var (
			info       SnapshotInfo
			createdOn  sql.NullInt64
			ingestedAt int64
		)
		if err := rows.Scan(&info.ID, &createdOn, &ingestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if createdOn.Valid {
			t := time.Unix(0, createdOn.Int64).UTC()
			info.CreatedOn = &t
		}
		info.IngestedAt = time.Unix(0, ingestedAt).UTC()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Rotate deletes everything but the newest maxSnapshots snapshots and
// returns how many were removed.
func (s *Storage) Rotate(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY ingested_at DESC, rowid DESC LIMIT ?
		)`, s.maxSnapshots)
	if err != nil {
		return 0, fmt.Errorf("failed to rotate snapshots: %w", err)
	}
	return res.RowsAffected()
}
