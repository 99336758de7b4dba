package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool abstracts the pgx connection pool to make testing easier.
type Pool interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

// Connect initialises a PostgreSQL connection pool using the provided database URL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// SessionTableDDL creates the table that holds one persisted client session per profile.
const SessionTableDDL = `
    CREATE TABLE IF NOT EXISTS client_sessions (
        profile      TEXT PRIMARY KEY,
        auth_token   TEXT NOT NULL,
        user_json    JSONB NOT NULL,
        updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
    )
`

// EnsureSchema applies SessionTableDDL.
func EnsureSchema(ctx context.Context, pool Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, SessionTableDDL); err != nil {
		return fmt.Errorf("create client_sessions: %w", err)
	}
	return nil
}
