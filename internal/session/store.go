// Package session holds the client-side cache of the signed-in user's
// sessions. The backend is the source of truth; the store only mediates
// load/create/select/delete and tracks which session is active.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/identity"
)

// ErrUnknownSession is returned when selecting a session that is not in the
// cached list.
var ErrUnknownSession = errors.New("unknown session")

// Backend is the slice of the api client the store depends on.
type Backend interface {
	ListSessions(ctx context.Context, userID string) ([]api.Session, error)
	CreateSession(ctx context.Context, name, userID string) (*api.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Store caches the user's sessions in memory. All mutation goes through its
// methods so the active id can never reference an absent session.
type Store struct {
	backend  Backend
	provider identity.Provider

	mu       sync.Mutex
	sessions []api.Session
	activeID string
}

// NewStore instantiates a session store.
func NewStore(backend Backend, provider identity.Provider) *Store {
	return &Store{backend: backend, provider: provider}
}

// Load replaces the cached list with the backend's. Signed-out users are a
// no-op: no request is issued. On failure the prior list is left unchanged.
func (s *Store) Load(ctx context.Context) error {
	userID := s.provider.UserID()
	if userID == "" {
		return nil
	}

	sessions, err := s.backend.ListSessions(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "loading sessions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = sessions
	// The list was replaced wholesale; drop the active id if its session is
	// gone.
	if s.activeID != "" && s.indexLocked(s.activeID) == -1 {
		s.activeID = ""
	}
	return nil
}

// Create asks the backend for a new session named "Chat {N+1}", prepends it
// and makes it active. On failure neither the list nor the active id change.
func (s *Store) Create(ctx context.Context) (*api.Session, error) {
	userID := s.provider.UserID()
	if userID == "" {
		return nil, errors.New("no signed-in user")
	}

	s.mu.Lock()
	name := fmt.Sprintf("Chat %d", len(s.sessions)+1)
	s.mu.Unlock()

	created, err := s.backend.CreateSession(ctx, name, userID)
	if err != nil {
		return nil, errors.Wrap(err, "creating session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]api.Session{*created}, s.sessions...)
	s.activeID = created.ID
	return created, nil
}

// Delete removes a session. If it was the active one, the active id is
// cleared in the same step: the caller lands back on the landing view.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.backend.DeleteSession(ctx, sessionID); err != nil {
		return errors.Wrap(err, "deleting session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(sessionID); i != -1 {
		s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	}
	if s.activeID == sessionID {
		s.activeID = ""
	}
	return nil
}

// Select makes a cached session the active one.
func (s *Store) Select(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(sessionID) == -1 {
		return ErrUnknownSession
	}
	s.activeID = sessionID
	return nil
}

// Deselect clears the active session.
func (s *Store) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// Sessions returns a copy of the cached list, newest first.
func (s *Store) Sessions() []api.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := make([]api.Session, len(s.sessions))
	copy(sessions, s.sessions)
	return sessions
}

// ActiveID returns the active session id, or "" when none is selected.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns the active session, or nil when none is selected.
func (s *Store) Active() *api.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.activeID); i != -1 {
		session := s.sessions[i]
		return &session
	}
	return nil
}

func (s *Store) indexLocked(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return i
		}
	}
	return -1
}
