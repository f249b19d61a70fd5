package thread

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/companionai/companion/internal/api"
)

type fakeBackend struct {
	histories map[string][]api.Message
	listErr   error
	reply     string
	chatErr   error
	chatCalls int
	// When set, blocks the List call until released. Used to interleave
	// overlapping history fetches.
	listGate chan struct{}
}

func (f *fakeBackend) ListMessages(ctx context.Context, sessionID string) ([]api.Message, error) {
	if f.listGate != nil {
		<-f.listGate
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.histories[sessionID], nil
}

func (f *fakeBackend) SendChat(ctx context.Context, sessionID, message string) (string, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.reply, nil
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input is a no-op", func(t *testing.T) {
		backend := &fakeBackend{}
		th := New(backend)
		th.Reset("s1")

		require.ErrorIs(t, th.Send(ctx, "   \n\t"), ErrEmptyMessage)
		require.Zero(t, backend.chatCalls)
		require.Empty(t, th.Messages())
	})

	t.Run("no session is a no-op", func(t *testing.T) {
		backend := &fakeBackend{}
		th := New(backend)

		require.ErrorIs(t, th.Send(ctx, "hello"), ErrNoSession)
		require.Zero(t, backend.chatCalls)
	})

	t.Run("success appends user then assistant", func(t *testing.T) {
		backend := &fakeBackend{reply: "hi there"}
		th := New(backend)
		th.Reset("s1")

		require.NoError(t, th.Send(ctx, "hello"))
		messages := th.Messages()
		require.Len(t, messages, 2)
		require.Equal(t, api.Message{Role: api.RoleUser, Content: "hello"}, messages[0])
		require.Equal(t, api.Message{Role: api.RoleAssistant, Content: "hi there"}, messages[1])
		require.False(t, th.Loading())
	})

	t.Run("failure leaves the dangling user message", func(t *testing.T) {
		backend := &fakeBackend{chatErr: errors.New("boom")}
		th := New(backend)
		th.Reset("s1")

		require.Error(t, th.Send(ctx, "hello"))
		messages := th.Messages()
		require.Len(t, messages, 1)
		require.Equal(t, api.RoleUser, messages[0].Role)
		require.False(t, th.Loading())
	})

	t.Run("input is trimmed", func(t *testing.T) {
		backend := &fakeBackend{reply: "ok"}
		th := New(backend)
		th.Reset("s1")

		require.NoError(t, th.Send(ctx, "  hello  "))
		require.Equal(t, "hello", th.Messages()[0].Content)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the list with the session's history", func(t *testing.T) {
		backend := &fakeBackend{histories: map[string][]api.Message{
			"s1": {{Role: api.RoleUser, Content: "old"}},
		}}
		th := New(backend)

		token := th.Reset("s1")
		require.NoError(t, th.Load(ctx, token))
		require.Len(t, th.Messages(), 1)
	})

	t.Run("clearing the selection empties the list", func(t *testing.T) {
		backend := &fakeBackend{histories: map[string][]api.Message{
			"s1": {{Role: api.RoleUser, Content: "old"}},
		}}
		th := New(backend)
		token := th.Reset("s1")
		require.NoError(t, th.Load(ctx, token))

		th.Reset("")
		require.Empty(t, th.Messages())
	})

	t.Run("stale fetch is discarded", func(t *testing.T) {
		backend := &fakeBackend{histories: map[string][]api.Message{
			"s1": {{Role: api.RoleUser, Content: "from s1"}},
			"s2": {{Role: api.RoleUser, Content: "from s2"}, {Role: api.RoleAssistant, Content: "reply"}},
		}}
		th := New(backend)

		// A fast session switch: the s1 fetch resolves after s2 was
		// selected and must not stomp s2's history.
		gate := make(chan struct{})
		backend.listGate = gate
		staleToken := th.Reset("s1")
		done := make(chan error, 1)
		go func() { done <- th.Load(ctx, staleToken) }()

		freshToken := th.Reset("s2")
		close(gate)
		require.NoError(t, <-done)

		backend.listGate = nil
		require.NoError(t, th.Load(ctx, freshToken))

		messages := th.Messages()
		require.Len(t, messages, 2)
		require.Equal(t, "from s2", messages[0].Content)
	})

	t.Run("fetch resolving after a send is discarded", func(t *testing.T) {
		backend := &fakeBackend{
			histories: map[string][]api.Message{
				"s1": {
					{Role: api.RoleUser, Content: "old"},
					{Role: api.RoleAssistant, Content: "old reply"},
				},
			},
			reply: "new reply",
		}
		th := New(backend)

		// The history fetch is still in flight when the user sends; its
		// result must not stomp the appended turn and its reply.
		gate := make(chan struct{})
		backend.listGate = gate
		token := th.Reset("s1")
		done := make(chan error, 1)
		go func() { done <- th.Load(ctx, token) }()

		require.NoError(t, th.Send(ctx, "hello"))
		close(gate)
		require.NoError(t, <-done)

		messages := th.Messages()
		require.Len(t, messages, 2)
		require.Equal(t, api.Message{Role: api.RoleUser, Content: "hello"}, messages[0])
		require.Equal(t, api.Message{Role: api.RoleAssistant, Content: "new reply"}, messages[1])
	})

	t.Run("failure keeps the current list", func(t *testing.T) {
		backend := &fakeBackend{listErr: errors.New("boom")}
		th := New(backend)
		token := th.Reset("s1")

		require.Error(t, th.Load(ctx, token))
		require.Empty(t, th.Messages())
	})
}

func TestLastAssistantMessage(t *testing.T) {
	backend := &fakeBackend{reply: "second"}
	th := New(backend)
	th.Reset("s1")

	require.Empty(t, th.LastAssistantMessage())
	require.NoError(t, th.Send(context.Background(), "hello"))
	require.Equal(t, "second", th.LastAssistantMessage())
}
