// Package identity carries the authenticated identity of a request.
// The auth middleware resolves the bearer token against the database and
// stores the result in the request context; the handlers read it back
// when they need the acting username.
package identity

import (
	"context"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
type Identity struct {
	// Username of the token owner.
	Username string

	// TokenKey is the API token key the request authenticated with.
	TokenKey string

	// UUIDHex identifies the user on the storage providers.
	UUIDHex string
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
