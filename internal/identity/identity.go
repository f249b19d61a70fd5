// Package identity is the boundary with the identity provider. The client
// only ever consumes "is a user signed in" and "what is their id"; sign-in
// itself happens outside this program.
package identity

import "github.com/companionai/companion/internal/configuration"

// Provider supplies the current user identity.
type Provider interface {
	// UserID returns the signed-in user's id, or "" when signed out.
	UserID() string
}

type configProvider struct {
	config *configuration.Config
}

// FromConfig returns a Provider backed by the parsed configuration (which
// already folds in the COMPANION_USER environment override).
func FromConfig(config *configuration.Config) Provider {
	return &configProvider{config: config}
}

func (p *configProvider) UserID() string {
	return p.config.UserID
}

// Static returns a Provider with a fixed user id. Used in tests.
func Static(userID string) Provider {
	return staticProvider(userID)
}

type staticProvider string

func (p staticProvider) UserID() string {
	return string(p)
}
