// Package ledger is the sqlite-backed rewards store the ads core dispatches
// earned-reward events into. Dispatch is fire-and-forget: storage failures
// are logged and absorbed, never surfaced to the core.
package ledger

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	adsmodel "adgate/go-client/internal/domains/ads/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS reward_events (
    id         TEXT PRIMARY KEY,
    amount     INTEGER NOT NULL,
    source     TEXT NOT NULL,
    earned_at  TEXT NOT NULL,
    stored_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reward_events_earned_at ON reward_events(earned_at);
`

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the rewards ledger at path.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open rewards ledger: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init rewards ledger schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Dispatch persists one earned-reward event.
func (s *Store) Dispatch(event adsmodel.RewardEvent) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO reward_events (id, amount, source, earned_at, stored_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		event.Amount,
		event.Source,
		event.EarnedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.log.Error("reward ledger dispatch failed", "err", err.Error())
	}
}

// StoredReward is one persisted ledger row.
type StoredReward struct {
	ID       string
	Amount   int64
	Source   string
	EarnedAt time.Time
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(limit int) ([]StoredReward, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, amount, source, earned_at FROM reward_events ORDER BY earned_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var out []StoredReward
	for rows.Next() {
		var rec StoredReward
		var earnedAt string
		if err := rows.Scan(&rec.ID, &rec.Amount, &rec.Source, &earnedAt); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, earnedAt)
		if err != nil {
			return nil, fmt.Errorf("parse reward timestamp: %w", err)
		}
		rec.EarnedAt = ts
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Total returns the sum of all stored reward amounts.
func (s *Store) Total() (int64, error) {
	var total sql.NullInt64
	if err := s.db.QueryRow(`SELECT SUM(amount) FROM reward_events`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum reward events: %w", err)
	}
	return total.Int64, nil
}
