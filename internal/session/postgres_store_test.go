package session

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/faceconnect/client/internal/db"
	"github.com/faceconnect/client/internal/models"
)

var testPool *pgxpool.Pool

// TestMain starts a throwaway cockroach node for the PostgresStore tests.
// The rest of the package does not need it, so a node that fails to start
// only skips those tests.
func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(m.Run())
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := db.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "ensure schema: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func resetSessions(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("cockroach test server unavailable")
	}
	if _, err := testPool.Exec(context.Background(), `DELETE FROM client_sessions`); err != nil {
		t.Fatalf("reset client_sessions: %v", err)
	}
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	resetSessions(t)
	exerciseStore(t, NewPostgresStore(testPool, "default"))
}

func TestPostgresStoreLoadWithoutRowIsEmpty(t *testing.T) {
	resetSessions(t)

	snap, err := NewPostgresStore(testPool, "nobody").Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error for a missing row, got %v", err)
	}
	if snap.Token != "" || !snap.User.IsZero() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestPostgresStoreUpsertsAndKeepsProfilesApart(t *testing.T) {
	ctx := context.Background()
	resetSessions(t)

	home := NewPostgresStore(testPool, "home")
	work := NewPostgresStore(testPool, "work")

	if err := home.Save(ctx, Snapshot{Token: "h1", User: models.User{ID: 1, FirstName: "Ann"}}); err != nil {
		t.Fatalf("save home: %v", err)
	}
	if err := home.Save(ctx, Snapshot{Token: "h2", User: models.User{ID: 1, FirstName: "Ann"}}); err != nil {
		t.Fatalf("resave home: %v", err)
	}
	if err := work.Save(ctx, Snapshot{Token: "w", User: models.User{ID: 2}}); err != nil {
		t.Fatalf("save work: %v", err)
	}
	if err := work.Clear(ctx); err != nil {
		t.Fatalf("clear work: %v", err)
	}

	got, err := home.Load(ctx)
	if err != nil {
		t.Fatalf("load home: %v", err)
	}
	if got.Token != "h2" || got.User.ID != 1 || got.User.FirstName != "Ann" {
		t.Fatalf("expected latest home session, got %+v", got)
	}

	var rows int
	if err := testPool.QueryRow(ctx, `SELECT count(*) FROM client_sessions`).Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one stored profile, got %d", rows)
	}
}

func TestNewPostgresStoreDefaultsProfile(t *testing.T) {
	if store := NewPostgresStore(nil, ""); store.profile != "default" {
		t.Fatalf("expected default profile, got %q", store.profile)
	}
}
