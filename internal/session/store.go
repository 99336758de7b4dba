package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/faceconnect/client/internal/models"
)

// Storage keys, shared by every backend under KeyNamespace.
const (
	KeyNamespace   = "faceconnect"
	KeyAuthToken   = "authToken"
	KeyCurrentUser = "currentUser"
)

// ErrCorruptSnapshot indicates stored data could not be decoded.
var ErrCorruptSnapshot = errors.New("stored session is corrupt")

// Store persists the session across process restarts. Load returns an empty
// Snapshot, not an error, when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
}

// Key builds a namespaced storage key for one profile.
func Key(profile, name string) string {
	if profile == "" {
		return fmt.Sprintf("%s:%s", KeyNamespace, name)
	}
	return fmt.Sprintf("%s:%s:%s", KeyNamespace, profile, name)
}

func encodeUser(user models.User) (string, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode current user: %w", err)
	}
	return string(data), nil
}

func decodeUser(raw string) (models.User, error) {
	if raw == "" {
		return models.User{}, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return user, nil
}

// NewMemoryStore returns a Store backed by an in-memory map.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// MemoryStore implements Store for tests and throwaway runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	token, rawUser := s.values[Key("", KeyAuthToken)], s.values[Key("", KeyCurrentUser)]
	s.mu.RUnlock()

	user, err := decodeUser(rawUser)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Token: token, User: user}, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	rawUser, err := encodeUser(snap.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[Key("", KeyAuthToken)] = snap.Token
	s.values[Key("", KeyCurrentUser)] = rawUser
	s.mu.Unlock()
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	delete(s.values, Key("", KeyAuthToken))
	delete(s.values, Key("", KeyCurrentUser))
	s.mu.Unlock()
	return nil
}

// Has reports whether a key exists. Useful for tests.
func (s *MemoryStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[Key("", name)]
	return ok
}
