package session

import (
	"sync"

	"github.com/faceconnect/client/internal/models"
)

// State is the session lifecycle state.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Snapshot is the persisted pair of bearer token and current user.
type Snapshot struct {
	Token string
	User  models.User
}

// Valid reports whether the snapshot can resume a session: a token and a user id.
func (s Snapshot) Valid() bool {
	return s.Token != "" && !s.User.IsZero()
}

// Session holds the in-memory credentials of the signed-in user. Views,
// actions and real-time handlers read it through accessors; only the
// lifecycle operations write it.
type Session struct {
	mu    sync.RWMutex
	token string
	user  models.User
}

// New returns a logged-out session.
func New() *Session {
	return &Session{}
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, or the zero User when logged out.
func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserID is a shorthand for User().ID.
func (s *Session) UserID() int64 {
	return s.User().ID
}

// State reports the lifecycle state.
func (s *Session) State() State {
	if s.Snapshot().Valid() {
		return LoggedIn
	}
	return LoggedOut
}

// LoggedIn is a shorthand for State() == LoggedIn.
func (s *Session) LoggedIn() bool {
	return s.State() == LoggedIn
}

// Snapshot copies the current credentials.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: s.user}
}

// Establish installs credentials from a login or a stored snapshot.
func (s *Session) Establish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = snap.Token
	s.user = snap.User
}

// Clear discards the in-memory credentials.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = models.User{}
}
