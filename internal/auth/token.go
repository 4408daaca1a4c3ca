package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// ErrInvalidToken indicates the token failed signature or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the payload of a signed session token.
// ID is the account identifier the session binds to.
type SessionClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenSigner mints and validates HS256 session tokens.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenSigner creates a TokenSigner with the given signing secret
// and token lifetime.
func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign issues a session token bound to the given account ID.
// The JTI is a ULID so issued sessions sort by issuance time.
func (s *TokenSigner) Sign(accountID string) (token string, jti string, err error) {
	now := s.now().UTC()
	jti = ulid.Make().String()

	claims := SessionClaims{
		ID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    "signet",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, jti, nil
}

// Parse validates a session token and returns its claims.
func (s *TokenSigner) Parse(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}
