package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
)

// HistorySchemaVersion is the latest schema version supported by migrateHistory.
const HistorySchemaVersion = 1

// Fixed width so that text order matches time order.
const historyTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Elapse is one recorded elapse of the timer.
type Elapse struct {
	ID       string
	At       time.Time
	Policy   model.PolicyKind
	Phase    timekeeper.Phase
	Interval time.Duration
}

// History provides SQLite-backed persistence for elapse records.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := migrateHistory(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func migrateHistory(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= HistorySchemaVersion {
		return nil
	}

	transaction, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	_, err = transaction.Exec(`
		CREATE TABLE IF NOT EXISTS elapses (
			id TEXT PRIMARY KEY,
			at TEXT NOT NULL,
			policy TEXT NOT NULL,
			phase TEXT NOT NULL,
			interval_seconds INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create elapses table: %w", err)
	}

	_, err = transaction.Exec(`CREATE INDEX IF NOT EXISTS elapses_at ON elapses (at);`)
	if err != nil {
		return fmt.Errorf("migrate: create elapses index: %w", err)
	}

	if _, err := transaction.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, HistorySchemaVersion); err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}

// Record appends an elapse. An empty ID is filled with a new UUID.
func (h *History) Record(ctx context.Context, elapse Elapse) (Elapse, error) {
	if h == nil || h.db == nil {
		return elapse, fmt.Errorf("record elapse: history is closed")
	}
	if elapse.ID == "" {
		elapse.ID = uuid.NewString()
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO elapses (id, at, policy, phase, interval_seconds) VALUES (?, ?, ?, ?, ?)`,
		elapse.ID,
		elapse.At.UTC().Format(historyTimeLayout),
		string(elapse.Policy),
		string(elapse.Phase),
		int64(elapse.Interval/time.Second),
	)
	if err != nil {
		return elapse, fmt.Errorf("record elapse: insert: %w", err)
	}
	return elapse, nil
}

// RecordElapse stores an elapse described by the status that was active
// before it.
func (h *History) RecordElapse(ctx context.Context, at time.Time, status timekeeper.Status) error {
	_, err := h.Record(ctx, Elapse{
		At:       at,
		Policy:   status.Policy,
		Phase:    status.Phase,
		Interval: status.Current,
	})
	return err
}

// CountSince returns how many elapses were recorded at or after since.
func (h *History) CountSince(ctx context.Context, since time.Time) (int, error) {
	if h == nil || h.db == nil {
		return 0, fmt.Errorf("count elapses: history is closed")
	}

	var count int
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM elapses WHERE at >= ?`,
		since.UTC().Format(historyTimeLayout),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count elapses: %w", err)
	}
	return count, nil
}

// Recent returns up to limit elapses, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Elapse, error) {
	if h == nil || h.db == nil {
		return nil, fmt.Errorf("recent elapses: history is closed")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, at, policy, phase, interval_seconds FROM elapses ORDER BY at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent elapses: %w", err)
	}
	defer rows.Close()

	var elapses []Elapse
	for rows.Next() {
		var (
			elapse  Elapse
			at      string
			policy  string
			phase   string
			seconds int64
		)
		if err := rows.Scan(&elapse.ID, &at, &policy, &phase, &seconds); err != nil {
			return nil, fmt.Errorf("recent elapses: scan: %w", err)
		}
		elapse.At, err = time.Parse(historyTimeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("recent elapses: parse time: %w", err)
		}
		elapse.Policy = model.PolicyKind(policy)
		elapse.Phase = timekeeper.Phase(phase)
		elapse.Interval = time.Duration(seconds) * time.Second
		elapses = append(elapses, elapse)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent elapses: %w", err)
	}
	return elapses, nil
}

// Close releases the database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
