package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRunRequiresCommand(t *testing.T) {
	if err := run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for missing command")
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	t.Setenv("FACECONNECT_STORE", "memory")
	err := run(context.Background(), []string{"dance"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), `unknown command "dance"`) {
		t.Fatalf("expected unknown command error got %v", err)
	}
}

func TestMigrateRejectsDown(t *testing.T) {
	t.Setenv("FACECONNECT_STORE", "memory")
	err := run(context.Background(), []string{"migrate", "down"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("expected unsupported down error got %v", err)
	}
}

func TestShouldRetryMigration(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&pgconn.PgError{Code: "40001"}, true},
		{fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40P01"}), true},
		{&pgconn.PgError{Code: "23505"}, false},
		{context.DeadlineExceeded, true},
		{pgx.ErrTxClosed, true},
		{errors.New("syntax error"), false},
	}
	for _, tc := range cases {
		if got := shouldRetryMigration(tc.err); got != tc.want {
			t.Fatalf("shouldRetryMigration(%v) expected %v got %v", tc.err, tc.want, got)
		}
	}
}

func TestMigrationBackoffIsCapped(t *testing.T) {
	if got := migrationBackoff(1); got != migrationBaseBackoff {
		t.Fatalf("expected base backoff got %s", got)
	}
	if got := migrationBackoff(3); got != 4*migrationBaseBackoff {
		t.Fatalf("expected doubled backoff got %s", got)
	}
	if got := migrationBackoff(20); got != migrationMaxBackoff {
		t.Fatalf("expected capped backoff got %s", got)
	}
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(pattern string, payload any) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(payload)
		})
	}
	reply("POST /api/login", map[string]any{
		"message":      "Login successful!",
		"access_token": "tok-cli",
		"user":         map[string]any{"id": 42, "first_name": "Ann", "last_name": "Lee", "username": "ann"},
	})
	reply("POST /api/logout", map[string]any{"message": "Logged out"})
	reply("GET /api/feed", map[string]any{
		"posts": []any{map[string]any{
			"id":          7,
			"content":     "first post from the cli",
			"author":      map[string]any{"id": 3, "first_name": "Bo", "last_name": "Ng"},
			"created_at":  time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
			"likes_count": 3,
		}},
		"has_next": true,
	})
	reply("GET /api/stories", map[string]any{"stories": []any{}})
	reply("GET /api/friends/requests", map[string]any{"friend_requests": []any{}})
	reply("GET /api/friends", map[string]any{"friends": []any{}})
	reply("GET /api/notifications", map[string]any{"notifications": []any{}})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCLISessionLifecycle(t *testing.T) {
	srv := fakeAPI(t)
	t.Setenv("FACECONNECT_API_URL", srv.URL+"/api")
	t.Setenv("FACECONNECT_REALTIME_URL", "ws://127.0.0.1:1/ws")
	t.Setenv("FACECONNECT_STORE", "file")
	t.Setenv("FACECONNECT_STORE_PATH", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("FACECONNECT_PASSWORD", "secret")
	t.Setenv("FACECONNECT_LOG_LEVEL", "error")

	ctx := context.Background()
	exec := func(args ...string) (string, error) {
		var out bytes.Buffer
		err := run(ctx, args, strings.NewReader(""), &out)
		return out.String(), err
	}

	out, err := exec("login", "ann@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Ann Lee (@ann) id=42") {
		t.Fatalf("expected user line after login, got %q", out)
	}

	out, err = exec("whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "id=42") {
		t.Fatalf("expected stored session to be restored, got %q", out)
	}

	out, err = exec("feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !strings.Contains(out, "first post from the cli") || !strings.Contains(out, "2h ago") {
		t.Fatalf("expected rendered post, got %q", out)
	}
	if !strings.Contains(out, "faceconnect feed 2") {
		t.Fatalf("expected next page hint, got %q", out)
	}

	out, err = exec("notifications")
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if !strings.Contains(out, "No notifications yet") {
		t.Fatalf("expected empty notifications, got %q", out)
	}

	if _, err := exec("logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := exec("whoami"); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn after logout got %v", err)
	}
}

func TestCLIFeedRejectsBadPage(t *testing.T) {
	t.Setenv("FACECONNECT_STORE", "memory")
	t.Setenv("FACECONNECT_LOG_LEVEL", "error")
	err := run(context.Background(), []string{"feed", "zero"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "invalid page") {
		t.Fatalf("expected invalid page error got %v", err)
	}
}
