// Package thread owns the message list of the active session: history loads
// on session switch, optimistic appends on send. The backend keeps the
// conversation memory; the client only ever sends the new turn's text.
package thread

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/companionai/companion/internal/api"
)

var (
	// ErrEmptyMessage is returned when a send is attempted with nothing but
	// whitespace. No request is issued and nothing is mutated.
	ErrEmptyMessage = errors.New("empty message")
	// ErrNoSession is returned when no session is selected.
	ErrNoSession = errors.New("no session selected")
)

// Backend is the slice of the api client the thread depends on.
type Backend interface {
	ListMessages(ctx context.Context, sessionID string) ([]api.Message, error)
	SendChat(ctx context.Context, sessionID, message string) (string, error)
}

// Thread is the per-session message list. The list is only ever replaced
// wholesale (history load) or appended to (send); never reordered.
type Thread struct {
	backend Backend

	mu        sync.Mutex
	sessionID string
	messages  []api.Message
	loading   bool
	loadToken uint64
}

// New instantiates a thread controller.
func New(backend Backend) *Thread {
	return &Thread{backend: backend}
}

// Reset switches the thread to a session and returns a load token for the
// matching Load call. An empty session id means no selection: the list is
// cleared and no load should follow. Overlapping switches are resolved by
// the token: only the latest one's history is ever applied.
func (t *Thread) Reset(sessionID string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadToken++
	t.sessionID = sessionID
	t.messages = nil
	return t.loadToken
}

// Load fetches the session's history and replaces the list, unless a newer
// Reset has happened since the token was issued.
func (t *Thread) Load(ctx context.Context, token uint64) error {
	t.mu.Lock()
	if token != t.loadToken || t.sessionID == "" {
		t.mu.Unlock()
		return nil
	}
	sessionID := t.sessionID
	t.mu.Unlock()

	messages, err := t.backend.ListMessages(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "loading messages")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.loadToken {
		// A newer session switch won; this history is stale.
		return nil
	}
	t.messages = messages
	return nil
}

// Send posts one user turn. The user message is appended optimistically
// before the backend confirms; a failed send leaves it in place with no
// reply and no retry. The loading flag is cleared on every path.
func (t *Thread) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	t.mu.Lock()
	if t.sessionID == "" {
		t.mu.Unlock()
		return ErrNoSession
	}
	sessionID := t.sessionID
	// The append supersedes any in-flight history fetch: were its result
	// applied later, it would stomp this turn and its reply.
	t.loadToken++
	t.messages = append(t.messages, api.Message{Role: api.RoleUser, Content: text})
	t.loading = true
	t.mu.Unlock()

	reply, err := t.backend.SendChat(ctx, sessionID, text)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	if sessionID == t.sessionID {
		t.messages = append(t.messages, api.Message{Role: api.RoleAssistant, Content: reply})
	}
	return nil
}

// Messages returns a copy of the current list, in chronological order.
func (t *Thread) Messages() []api.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	messages := make([]api.Message, len(t.messages))
	copy(messages, t.messages)
	return messages
}

// Loading reports whether a send is awaiting its reply.
func (t *Thread) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// SessionID returns the session the thread is bound to, or "".
func (t *Thread) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// LastAssistantMessage returns the content of the most recent assistant
// turn, or "" when there is none.
func (t *Thread) LastAssistantMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == api.RoleAssistant {
			return t.messages[i].Content
		}
	}
	return ""
}
