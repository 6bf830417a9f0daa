package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

// UserIDHeader carries the acting user when bearer-token auth is disabled.
const UserIDHeader = "X-User-ID"

// Authenticator resolves the user a request acts on behalf of.
//
// With a secret, identity is the "sub" claim of an HS256 bearer token.
// Without one, identity is taken from the X-User-ID header.
type Authenticator struct {
	jwt *jwtauth.JWTAuth
}

// NewAuthenticator creates an Authenticator. An empty secret selects header identity.
func NewAuthenticator(secret string) *Authenticator {
	if secret == "" {
		return &Authenticator{}
	}
	return &Authenticator{jwt: jwtauth.New("HS256", []byte(secret), nil)}
}

// TokenAuth returns the underlying JWTAuth, or nil when header identity is in use.
func (a *Authenticator) TokenAuth() *jwtauth.JWTAuth {
	return a.jwt
}

// Verifier parses bearer tokens into the request context. It never rejects a request.
func (a *Authenticator) Verifier() func(http.Handler) http.Handler {
	if a.jwt == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return jwtauth.Verifier(a.jwt)
}

// Actor returns the acting user's ID, or an error wrapping ErrMissingIdentity.
func (a *Authenticator) Actor(r *http.Request) (uuid.UUID, error) {
	raw, err := a.rawActor(r)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user id %q", ErrMissingIdentity, raw)
	}
	return id, nil
}

func (a *Authenticator) rawActor(r *http.Request) (string, error) {
	if a.jwt == nil {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			return "", fmt.Errorf("%w: %s header not set", ErrMissingIdentity, UserIDHeader)
		}
		return raw, nil
	}

	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingIdentity, err)
	}
	if token == nil {
		return "", fmt.Errorf("%w: bearer token required", ErrMissingIdentity)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrMissingIdentity)
	}
	return sub, nil
}
