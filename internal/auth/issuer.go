package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an issued session token.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer exchanges a username and password for a signed session token.
type TokenIssuer struct {
	passwords *PasswordVerifier
	secret    []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenIssuer(cfg Config, users UserStore) *TokenIssuer {
	return &TokenIssuer{
		passwords: NewPasswordVerifier(users),
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		ttl:       cfg.ttl(),
		now:       cfg.clock(),
	}
}

func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

func (ti *TokenIssuer) Issue(ctx context.Context, username, password string) (*Token, error) {
	identity, err := ti.passwords.Verify(ctx, Basic(username, password))
	if err != nil {
		return nil, err
	}

	// JWT dates have second precision.
	issuedAt := ti.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ti.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   identity.Subject,
		Issuer:    ti.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
