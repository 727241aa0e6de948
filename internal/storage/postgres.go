// Package storage persists completed analyses in PostgreSQL. The
// store is optional: a nil *Store is accepted everywhere and simply
// disables history.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/arqvlabs/arqv30/internal/analysis"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("analysis not found")

// Record is a persisted analysis row.
type Record struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id,omitempty"`
	Segmento  string           `json:"segmento"`
	Produto   string           `json:"produto,omitempty"`
	Result    *analysis.Result `json:"analysis_data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Summary is the listing view of a record, without the full payload.
type Summary struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Segmento  string    `json:"segmento"`
	Produto   string    `json:"produto,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the analyses table.
type Store struct {
	db *sql.DB
}

// New opens the database, verifies connectivity and ensures the schema.
func New(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		id SERIAL PRIMARY KEY,
		user_id TEXT,
		segmento TEXT NOT NULL,
		produto TEXT,
		analysis_data JSONB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		picture TEXT,
		password_hash BYTEA NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// Save inserts a record and fills in its ID and CreatedAt.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if s == nil {
		return nil
	}

	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO analyses (user_id, segmento, produto, analysis_data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		rec.UserID, rec.Segmento, rec.Produto, payload).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// List returns recent analyses, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(user_id, ''), segmento, COALESCE(produto, ''), created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.UserID, &sm.Segmento, &sm.Produto, &sm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Get returns a full record by ID.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	if s == nil {
		return nil, ErrNotFound
	}

	return s.scanRecord(s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id, ''), segmento, COALESCE(produto, ''), analysis_data, created_at
		FROM analyses
		WHERE id = $1`, id))
}

// Latest returns the most recent record for a user. An empty userID
// matches any user.
func (s *Store) Latest(ctx context.Context, userID string) (*Record, error) {
	if s == nil {
		return nil, ErrNotFound
	}

	if userID == "" {
		return s.scanRecord(s.db.QueryRowContext(ctx, `
			SELECT id, COALESCE(user_id, ''), segmento, COALESCE(produto, ''), analysis_data, created_at
			FROM analyses
			ORDER BY created_at DESC
			LIMIT 1`))
	}
	return s.scanRecord(s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id, ''), segmento, COALESCE(produto, ''), analysis_data, created_at
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID))
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if s == nil {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) scanRecord(row *sql.Row) (*Record, error) {
	var rec Record
	var payload []byte
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Segmento, &rec.Produto, &payload, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}

	if len(payload) > 0 {
		var r analysis.Result
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("failed to decode analysis payload: %w", err)
		}
		rec.Result = &r
	}
	return &rec, nil
}
