package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/faceconnect/client/internal/db"
)

// PostgresStore persists the session in the client_sessions table, one row per profile.
type PostgresStore struct {
	pool    db.Pool
	profile string
}

// NewPostgresStore constructs a session store backed by PostgreSQL.
func NewPostgresStore(pool db.Pool, profile string) *PostgresStore {
	if profile == "" {
		profile = "default"
	}
	return &PostgresStore{pool: pool, profile: profile}
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT auth_token, user_json::text
        FROM client_sessions
        WHERE profile = $1
    `, s.profile)

	var token, rawUser string
	if err := row.Scan(&token, &rawUser); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("select session: %w", err)
	}

	user, err := decodeUser(rawUser)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Token: token, User: user}, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	rawUser, err := encodeUser(snap.User)
	if err != nil {
		return err
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO client_sessions (profile, auth_token, user_json, updated_at)
        VALUES ($1, $2, $3::jsonb, now())
        ON CONFLICT (profile)
        DO UPDATE SET auth_token = EXCLUDED.auth_token,
                      user_json = EXCLUDED.user_json,
                      updated_at = EXCLUDED.updated_at
    `, s.profile, snap.Token, rawUser)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *PostgresStore) Clear(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM client_sessions
        WHERE profile = $1
    `, s.profile); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
