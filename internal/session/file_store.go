package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the session in a small JSON document, one entry per key.
type FileStore struct {
	path    string
	profile string
	mu      sync.Mutex
}

// NewFileStore stores profile's session at path. The file may hold several profiles,
// so a file that cannot be decoded is never overwritten.
func NewFileStore(path, profile string) *FileStore {
	return &FileStore{path: path, profile: profile}
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return Snapshot{}, err
	}
	user, err := decodeUser(doc[Key(s.profile, KeyCurrentUser)])
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Token: doc[Key(s.profile, KeyAuthToken)], User: user}, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawUser, err := encodeUser(snap.User)
	if err != nil {
		return err
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[Key(s.profile, KeyAuthToken)] = snap.Token
	doc[Key(s.profile, KeyCurrentUser)] = rawUser
	return s.write(doc)
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	delete(doc, Key(s.profile, KeyAuthToken))
	delete(doc, Key(s.profile, KeyCurrentUser))
	return s.write(doc)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	doc := map[string]string{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
