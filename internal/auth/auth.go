// Package auth verifies presented credentials and issues session tokens.
// Everything here is read-only after construction and safe for concurrent
// use.
package auth

import (
	"context"
	"time"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

type Kind string

const (
	KindAPIKey Kind = "api_key"
	KindBearer Kind = "bearer"
	KindBasic  Kind = "basic"
)

// Credential is what a client presented. Value holds the API key or the raw
// Authorization header; Username and Password are used by KindBasic only.
type Credential struct {
	Kind     Kind
	Value    string
	Username string
	Password string
}

func APIKey(key string) Credential {
	return Credential{Kind: KindAPIKey, Value: key}
}

func Bearer(authorization string) Credential {
	return Credential{Kind: KindBearer, Value: authorization}
}

func Basic(username, password string) Credential {
	return Credential{Kind: KindBasic, Username: username, Password: password}
}

// Identity is the principal behind a verified credential.
type Identity struct {
	Subject string
	Kind    Kind
}

type Verifier interface {
	Verify(ctx context.Context, cred Credential) (Identity, error)
}

// Config is the process-wide credential configuration.
type Config struct {
	APIKeys  []string
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
	// Now is the clock used for issuing and expiring tokens.
	Now func() time.Time
}

const DefaultTokenTTL = 30 * time.Minute

func (c Config) clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}

func (c Config) ttl() time.Duration {
	if c.TokenTTL > 0 {
		return c.TokenTTL
	}
	return DefaultTokenTTL
}

// Verifiers dispatches to the verifier registered for the credential kind.
type Verifiers map[Kind]Verifier

func (vs Verifiers) Verify(ctx context.Context, cred Credential) (Identity, error) {
	v, ok := vs[cred.Kind]
	if !ok {
		return Identity{}, models.ErrUnauthorized.WithField("", "unsupported credential")
	}
	return v.Verify(ctx, cred)
}
