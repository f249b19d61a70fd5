package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/identity"
)

type fakeBackend struct {
	sessions    []api.Session
	listErr     error
	createErr   error
	deleteErr   error
	listCalls   int
	nextID      int
	deletedIDs  []string
	createNames []string
}

func (f *fakeBackend) ListSessions(ctx context.Context, userID string) ([]api.Session, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sessions, nil
}

func (f *fakeBackend) CreateSession(ctx context.Context, name, userID string) (*api.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	f.createNames = append(f.createNames, name)
	return &api.Session{ID: fmt.Sprintf("s%d", f.nextID), Name: name, UserID: userID}, nil
}

func (f *fakeBackend) DeleteSession(ctx context.Context, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, sessionID)
	return nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the list", func(t *testing.T) {
		backend := &fakeBackend{sessions: []api.Session{{ID: "a"}, {ID: "b"}}}
		store := NewStore(backend, identity.Static("user-1"))

		require.NoError(t, store.Load(ctx))
		require.Len(t, store.Sessions(), 2)
	})

	t.Run("signed out issues no request", func(t *testing.T) {
		backend := &fakeBackend{}
		store := NewStore(backend, identity.Static(""))

		require.NoError(t, store.Load(ctx))
		require.Zero(t, backend.listCalls)
	})

	t.Run("failure keeps the prior list", func(t *testing.T) {
		backend := &fakeBackend{sessions: []api.Session{{ID: "a"}}}
		store := NewStore(backend, identity.Static("user-1"))
		require.NoError(t, store.Load(ctx))

		backend.listErr = errors.New("boom")
		require.Error(t, store.Load(ctx))
		require.Len(t, store.Sessions(), 1)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("prepends and selects", func(t *testing.T) {
		backend := &fakeBackend{sessions: []api.Session{{ID: "a", Name: "Chat 1"}}}
		store := NewStore(backend, identity.Static("user-1"))
		require.NoError(t, store.Load(ctx))

		created, err := store.Create(ctx)
		require.NoError(t, err)
		require.Equal(t, "Chat 2", created.Name)

		sessions := store.Sessions()
		require.Len(t, sessions, 2)
		require.Equal(t, created.ID, sessions[0].ID)
		require.Equal(t, created.ID, store.ActiveID())
	})

	t.Run("failure leaves everything unchanged", func(t *testing.T) {
		backend := &fakeBackend{createErr: errors.New("boom")}
		store := NewStore(backend, identity.Static("user-1"))

		_, err := store.Create(ctx)
		require.Error(t, err)
		require.Empty(t, store.Sessions())
		require.Empty(t, store.ActiveID())
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting the active session clears the selection", func(t *testing.T) {
		backend := &fakeBackend{sessions: []api.Session{{ID: "a"}, {ID: "b"}}}
		store := NewStore(backend, identity.Static("user-1"))
		require.NoError(t, store.Load(ctx))
		require.NoError(t, store.Select("b"))

		require.NoError(t, store.Delete(ctx, "b"))
		sessions := store.Sessions()
		require.Len(t, sessions, 1)
		require.Equal(t, "a", sessions[0].ID)
		require.Empty(t, store.ActiveID())
		require.Nil(t, store.Active())
	})

	t.Run("deleting another session keeps the selection", func(t *testing.T) {
		backend := &fakeBackend{sessions: []api.Session{{ID: "a"}, {ID: "b"}}}
		store := NewStore(backend, identity.Static("user-1"))
		require.NoError(t, store.Load(ctx))
		require.NoError(t, store.Select("b"))

		require.NoError(t, store.Delete(ctx, "a"))
		require.Equal(t, "b", store.ActiveID())
	})

	t.Run("failure leaves the list unchanged", func(t *testing.T) {
		backend := &fakeBackend{sessions: []api.Session{{ID: "a"}}}
		store := NewStore(backend, identity.Static("user-1"))
		require.NoError(t, store.Load(ctx))

		backend.deleteErr = errors.New("boom")
		require.Error(t, store.Delete(ctx, "a"))
		require.Len(t, store.Sessions(), 1)
	})
}

func TestActiveNeverDangles(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	store := NewStore(backend, identity.Static("user-1"))

	// Arbitrary create/delete interleavings keep the invariant: the active
	// id always references a cached session or is empty.
	for i := 0; i < 5; i++ {
		created, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, created.ID))
		require.Empty(t, store.ActiveID())

		_, err = store.Create(ctx)
		require.NoError(t, err)
	}

	for _, session := range store.Sessions() {
		require.NoError(t, store.Select(session.ID))
		require.NoError(t, store.Delete(ctx, session.ID))
		require.Empty(t, store.ActiveID())
	}
	require.Empty(t, store.Sessions())
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{sessions: []api.Session{{ID: "a"}}}
	store := NewStore(backend, identity.Static("user-1"))
	require.NoError(t, store.Load(ctx))

	require.ErrorIs(t, store.Select("nope"), ErrUnknownSession)
	require.NoError(t, store.Select("a"))
	require.Equal(t, "a", store.ActiveID())

	store.Deselect()
	require.Empty(t, store.ActiveID())
}
