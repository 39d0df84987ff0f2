package store

import (
	"errors"
	"time"
)

// ErrTokenNotFound is returned when no token matches the given key
var ErrTokenNotFound = errors.New("token not found")

// Token is an API credential together with the username it belongs to
type Token struct {
	Key       string
	Username  string
	UUIDHex   string
	IsActive  bool
	CreatedAt time.Time
}

// TokensStore abstracts token lookup
type TokensStore interface {
	// FetchByKey retrieves a token by its key.
	// Returns ErrTokenNotFound if no such token exists.
	FetchByKey(key string) (*Token, error)
}
