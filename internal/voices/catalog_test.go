package voices

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/companionai/companion/internal/api"
)

type fakeBackend struct {
	voices []api.Voice
	err    error
	calls  int
}

func (f *fakeBackend) ListVoices(ctx context.Context) ([]api.Voice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.voices, nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once", func(t *testing.T) {
		backend := &fakeBackend{voices: []api.Voice{{ID: "a", Name: "Aria"}}}
		catalog := NewCatalog(backend)

		require.NoError(t, catalog.Load(ctx))
		require.NoError(t, catalog.Load(ctx))
		require.Equal(t, 1, backend.calls)
		require.Len(t, catalog.Voices(), 1)
	})

	t.Run("failure leaves the catalog empty", func(t *testing.T) {
		backend := &fakeBackend{err: errors.New("boom")}
		catalog := NewCatalog(backend)

		require.Error(t, catalog.Load(ctx))
		require.Empty(t, catalog.Voices())
	})
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		name      string
		voices    []api.Voice
		preferred string
		want      string
	}{
		{
			name:      "empty catalog keeps the configured default",
			preferred: "en-US-AriaNeural",
			want:      "en-US-AriaNeural",
		},
		{
			name:      "preferred present in the catalog",
			voices:    []api.Voice{{ID: "a"}, {ID: "b"}},
			preferred: "b",
			want:      "b",
		},
		{
			name:      "preferred absent falls back to the first entry",
			voices:    []api.Voice{{ID: "a"}, {ID: "b"}},
			preferred: "missing",
			want:      "a",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			backend := &fakeBackend{voices: testCase.voices}
			catalog := NewCatalog(backend)
			require.NoError(t, catalog.Load(context.Background()))
			require.Equal(t, testCase.want, catalog.Resolve(testCase.preferred))
		})
	}
}

func TestNext(t *testing.T) {
	backend := &fakeBackend{voices: []api.Voice{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	catalog := NewCatalog(backend)
	require.NoError(t, catalog.Load(context.Background()))

	require.Equal(t, "b", catalog.Next("a"))
	require.Equal(t, "a", catalog.Next("c"))
	require.Equal(t, "a", catalog.Next("unknown"))

	empty := NewCatalog(&fakeBackend{})
	require.Equal(t, "x", empty.Next("x"))
}

func TestName(t *testing.T) {
	backend := &fakeBackend{voices: []api.Voice{{ID: "a", Name: "Aria"}}}
	catalog := NewCatalog(backend)
	require.NoError(t, catalog.Load(context.Background()))

	require.Equal(t, "Aria", catalog.Name("a"))
	require.Equal(t, "ghost", catalog.Name("ghost"))
}
