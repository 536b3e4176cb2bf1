package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gitlab.com/napatw/pantry-bot/internal/database"
)

// PGStore persists notify flags in the notify_flags table so throttling
// survives process restarts.
type PGStore struct {
	db database.PGXDB
}

// NewPGStore creates a PGStore over a pool or transaction.
func NewPGStore(db database.PGXDB) *PGStore {
	return &PGStore{db: db}
}

// Get returns the stored flag value for key.
func (s *PGStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM notify_flags WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read notify flag: %w", err)
	}
	return value, true, nil
}

// Set stores value under key. ON CONFLICT DO NOTHING keeps the first write
// of the day; concurrent markers cannot clobber each other.
func (s *PGStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO notify_flags (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write notify flag: %w", err)
	}
	return nil
}

var _ KeyValueStore = (*PGStore)(nil)
