// Package auth mints and checks the per-request bearer tokens the external
// quotation API expects: an HS256 JWT over an {"iat"} claim signed with a
// shared secret. The business logic above never sees any of this; the
// facade attaches credentials, the core does not know how.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("missing JWT secret")
	ErrBadToken      = errors.New("malformed bearer token")
	ErrBadSignature  = errors.New("bearer token signature mismatch")
)

// HS256Minter produces one short-lived token per request.
type HS256Minter struct {
	secret []byte
	now    func() time.Time
}

func NewHS256Minter(secret string) (*HS256Minter, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &HS256Minter{secret: []byte(secret), now: time.Now}, nil
}

// Token mints a fresh token carrying only the issued-at claim.
func (m *HS256Minter) Token() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": m.now().Unix(),
	})
	return token.SignedString(m.secret)
}

// Verify checks structure and signature of a presented token. Claims are
// not inspected beyond the library's validation: the shared secret is the
// whole trust model here.
func (m *HS256Minter) Verify(token string) error {
	_, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	default:
		return ErrBadToken
	}
}
