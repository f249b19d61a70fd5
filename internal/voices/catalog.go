// Package voices fetches the backend's catalog of synthetic voices and
// resolves the current selection against it.
package voices

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/companionai/companion/internal/api"
)

// Backend is the slice of the api client the catalog depends on.
type Backend interface {
	ListVoices(ctx context.Context) ([]api.Voice, error)
}

// Catalog holds the fetched voice list. It is loaded once; a failed load
// leaves it empty and the selector simply shows no options.
type Catalog struct {
	backend Backend

	mu     sync.Mutex
	voices []api.Voice
	loaded bool
}

// NewCatalog instantiates a voice catalog.
func NewCatalog(backend Backend) *Catalog {
	return &Catalog{backend: backend}
}

// Load fetches the catalog. Subsequent calls are no-ops once a load has
// succeeded.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	voices, err := c.backend.ListVoices(ctx)
	if err != nil {
		return errors.Wrap(err, "loading voices")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.voices = voices
	c.loaded = true
	return nil
}

// Voices returns a copy of the catalog.
func (c *Catalog) Voices() []api.Voice {
	c.mu.Lock()
	defer c.mu.Unlock()
	voices := make([]api.Voice, len(c.voices))
	copy(voices, c.voices)
	return voices
}

// Resolve validates a preferred voice id against the catalog. An absent
// preferred id falls back to the first catalog entry; an empty catalog keeps
// the preferred id as-is so the configured default survives a failed load.
func (c *Catalog) Resolve(preferred string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.voices) == 0 {
		return preferred
	}
	for _, voice := range c.voices {
		if voice.ID == preferred {
			return preferred
		}
	}
	return c.voices[0].ID
}

// Next returns the voice id following the current one, wrapping around.
// With an empty catalog the current id is returned unchanged.
func (c *Catalog) Next(current string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.voices) == 0 {
		return current
	}
	for i, voice := range c.voices {
		if voice.ID == current {
			return c.voices[(i+1)%len(c.voices)].ID
		}
	}
	return c.voices[0].ID
}

// Name returns the display name for a voice id, falling back to the id for
// voices absent from the catalog.
func (c *Catalog) Name(voiceID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, voice := range c.voices {
		if voice.ID == voiceID {
			return voice.Name
		}
	}
	return voiceID
}
