// Package auth supplies bearer tokens for calls to the platform backend.
// The backend remains the validation authority; this package only refuses to
// send requests with tokens that are already known to be expired.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned when the configured token's exp claim has passed.
var ErrTokenExpired = errors.New("auth: token expired")

// TokenSource yields a bearer token for outgoing backend requests.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken wraps a long-lived service token handed to the portal at deploy
// time. If the token is a JWT carrying an exp claim, Token reports expiry
// instead of letting the backend reject every call with a 401.
type StaticToken struct {
	raw       string
	expiresAt *time.Time
	now       func() time.Time
}

// NewStaticToken builds a StaticToken. Non-JWT tokens are passed through as-is.
func NewStaticToken(raw string) (*StaticToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("auth: empty token")
	}

	st := &StaticToken{raw: raw, now: time.Now}
	if strings.Count(raw, ".") != 2 {
		return st, nil
	}

	// Claims are inspected without signature verification; only the backend
	// holds the signing key.
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("auth: read exp claim: %w", err)
	}
	if exp != nil {
		st.expiresAt = &exp.Time
	}
	return st, nil
}

// Token returns the raw token, or ErrTokenExpired once the exp claim passes.
func (s *StaticToken) Token() (string, error) {
	if s.expiresAt != nil && !s.now().Before(*s.expiresAt) {
		return "", ErrTokenExpired
	}
	return s.raw, nil
}

// ExpiresAt reports the parsed expiry, or zero time when the token never expires.
func (s *StaticToken) ExpiresAt() time.Time {
	if s.expiresAt == nil {
		return time.Time{}
	}
	return *s.expiresAt
}
