package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/faceconnect/client/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	s := New()
	if s.LoggedIn() {
		t.Fatalf("expected new session to be logged out")
	}

	s.Establish(Snapshot{Token: "tok", User: models.User{ID: 7, FirstName: "Ann"}})
	if s.State() != LoggedIn {
		t.Fatalf("expected logged in, got %s", s.State())
	}
	if s.Token() != "tok" || s.UserID() != 7 {
		t.Fatalf("unexpected credentials %q/%d", s.Token(), s.UserID())
	}

	s.Clear()
	if s.LoggedIn() || s.Token() != "" || !s.User().IsZero() {
		t.Fatalf("expected cleared session, got %+v", s.Snapshot())
	}
}

func TestSnapshotValidRequiresTokenAndUser(t *testing.T) {
	cases := map[string]Snapshot{
		"empty":       {},
		"token only":  {Token: "tok"},
		"user only":   {User: models.User{ID: 1}},
		"zero userid": {Token: "tok", User: models.User{Username: "ann"}},
	}
	for name, snap := range cases {
		if snap.Valid() {
			t.Errorf("%s: expected invalid snapshot", name)
		}
	}
	if !(Snapshot{Token: "tok", User: models.User{ID: 1}}).Valid() {
		t.Fatalf("expected valid snapshot")
	}
}

func TestKey(t *testing.T) {
	if got := Key("", KeyAuthToken); got != "faceconnect:authToken" {
		t.Fatalf("expected faceconnect:authToken, got %s", got)
	}
	if got := Key("work", KeyCurrentUser); got != "faceconnect:work:currentUser" {
		t.Fatalf("expected faceconnect:work:currentUser, got %s", got)
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load empty store: %v", err)
	}
	if snap.Valid() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}

	want := Snapshot{Token: "abc", User: models.User{ID: 42, Username: "ann", FirstName: "Ann", LastName: "Lee"}}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != want.Token || got.User.ID != want.User.ID || got.User.DisplayName() != "Ann Lee" {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if got.Token != "" || !got.User.IsZero() {
		t.Fatalf("expected cleared store, got %+v", got)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	if store.Has(KeyAuthToken) || store.Has(KeyCurrentUser) {
		t.Fatalf("expected keys removed after clear")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path, "default"))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestFileStoreKeepsProfilesApart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	home := NewFileStore(path, "home")
	work := NewFileStore(path, "work")

	if err := home.Save(ctx, Snapshot{Token: "h", User: models.User{ID: 1}}); err != nil {
		t.Fatalf("save home: %v", err)
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
	if got.Token != "h" || got.User.ID != 1 {
		t.Fatalf("expected home session intact, got %+v", got)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewFileStore(path, "default").Load(context.Background())
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(42),
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	got, err := TokenExpiry(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %s, got %s", exp, got)
	}
	if sub := TokenSubject(token); sub != "42" {
		t.Fatalf("expected subject 42, got %q", sub)
	}
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ann"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := TokenExpiry(token); !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
	if _, err := TokenExpiry("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestFileStoreLeavesCorruptFileAlone(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	original := []byte(`{"faceconnect:home:authToken": "h",`)
	if err := os.WriteFile(path, original, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileStore(path, "work")

	if err := store.Save(ctx, Snapshot{Token: "w", User: models.User{ID: 2}}); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected save to report ErrCorruptSnapshot, got %v", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected clear to report ErrCorruptSnapshot, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != string(original) {
		t.Fatalf("expected corrupt file untouched, got %q", data)
	}
}
