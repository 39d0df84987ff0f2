// Package middleware provides the HTTP middleware of the API server.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alqor-ug/qlued-go/pkg/identity"
	"github.com/alqor-ug/qlued-go/pkg/log"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

// InvalidCredentials is the detail and error message of the 401 response.
const InvalidCredentials = "Invalid credentials!"

// TokenAuth authenticates requests through a bearer token.
type TokenAuth struct {
	tokens store.TokensStore
}

// NewTokenAuth creates a TokenAuth backed by the given store.
func NewTokenAuth(tokens store.TokensStore) *TokenAuth {
	return &TokenAuth{tokens: tokens}
}

// Middleware rejects requests without a valid, active token and stores the
// resolved identity in the request context.
func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := bearerToken(r)

		id, err := a.Authenticate(key)
		if err != nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// Authenticate resolves a token key to an identity. It is also used by the
// v2 handlers, which receive the token in the request body or query
// instead of the Authorization header.
func (a *TokenAuth) Authenticate(key string) (*identity.Identity, error) {
	if key == "" {
		return nil, store.ErrTokenNotFound
	}

	token, err := a.tokens.FetchByKey(key)
	if err != nil {
		if err != store.ErrTokenNotFound {
			logger := log.WithComponent("auth")
			logger.Error().Err(err).Msg("token lookup failed")
		}
		return nil, err
	}
	if !token.IsActive {
		return nil, store.ErrTokenNotFound
	}

	return &identity.Identity{
		Username: token.Username,
		TokenKey: token.Key,
		UUIDHex:  token.UUIDHex,
	}, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Unauthorized writes the 401 response clients expect: an ERROR status
// document rather than a bare error string.
func Unauthorized(w http.ResponseWriter) {
	unauthorized(w)
}

func unauthorized(w http.ResponseWriter) {
	response, _ := json.Marshal(schemes.ErrorStatus("", InvalidCredentials))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(response)
}
