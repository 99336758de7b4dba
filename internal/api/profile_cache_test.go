package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/faceconnect/client/internal/models"
)

type stubProfiles struct {
	profile models.Profile
	err     error
	calls   int
}

func (s *stubProfiles) Profile(context.Context, int64) (models.Profile, error) {
	s.calls++
	if s.err != nil {
		return models.Profile{}, s.err
	}
	return s.profile, nil
}

func TestProfileCacheLookup(t *testing.T) {
	base := &stubProfiles{profile: models.Profile{User: models.User{ID: 9, FirstName: "Cy"}}}
	cache := NewProfileCache(base, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.WithNowFunc(func() time.Time { return now })

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		p, err := cache.Profile(ctx, 9)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if p.FirstName != "Cy" {
			t.Fatalf("unexpected profile: %+v", p)
		}
	}
	if base.calls != 1 {
		t.Fatalf("expected cached result got %d calls", base.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Profile(ctx, 9); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected expired entry to be refetched got %d calls", base.calls)
	}

	cache.Reset()
	if _, err := cache.Profile(ctx, 9); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.calls != 3 {
		t.Fatalf("expected reset to drop entries got %d calls", base.calls)
	}
}

func TestProfileCacheDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("boom")
	base := &stubProfiles{err: boom}
	cache := NewProfileCache(base, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.Profile(context.Background(), 1); !errors.Is(err, boom) {
			t.Fatalf("expected boom got %v", err)
		}
	}
	if base.calls != 2 {
		t.Fatalf("expected every failed lookup to reach the source got %d", base.calls)
	}
}
