package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arqvlabs/arqv30/internal/session"
)

// SaveUser persists a registered account.
func (s *Store) SaveUser(ctx context.Context, u *session.User, passwordHash []byte) error {
	if s == nil {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, picture, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING`,
		u.ID, u.Name, u.Email, u.Picture, passwordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UserByEmail loads an account and its password hash.
func (s *Store) UserByEmail(ctx context.Context, email string) (*session.User, []byte, error) {
	if s == nil {
		return nil, nil, ErrNotFound
	}

	var u session.User
	var hash []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(picture, ''), password_hash, created_at
		FROM users
		WHERE email = $1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Picture, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, hash, nil
}
