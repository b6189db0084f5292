package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

const bearerPrefix = "Bearer "

// APIKeyVerifier accepts keys from a fixed allow-set. Absent and wrong keys
// are both FORBIDDEN.
type APIKeyVerifier struct {
	keys [][]byte
}

func NewAPIKeyVerifier(cfg Config) *APIKeyVerifier {
	keys := make([][]byte, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k == "" {
			continue
		}
		keys = append(keys, []byte(k))
	}
	return &APIKeyVerifier{keys: keys}
}

func (v *APIKeyVerifier) Verify(_ context.Context, cred Credential) (Identity, error) {
	if cred.Kind != KindAPIKey || cred.Value == "" {
		return Identity{}, models.ErrForbidden.WithField("", "Forbidden: missing API key")
	}
	presented := []byte(cred.Value)
	for _, k := range v.keys {
		if subtle.ConstantTimeCompare(presented, k) == 1 {
			return Identity{Subject: "api-key", Kind: KindAPIKey}, nil
		}
	}
	return Identity{}, models.ErrForbidden.WithField("", "Forbidden: invalid API key")
}

// BearerVerifier validates session tokens produced by TokenIssuer.
type BearerVerifier struct {
	secret []byte
	issuer string
	users  UserStore
	now    func() time.Time
}

func NewBearerVerifier(cfg Config, users UserStore) *BearerVerifier {
	return &BearerVerifier{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		users:  users,
		now:    cfg.clock(),
	}
}

func (v *BearerVerifier) Verify(_ context.Context, cred Credential) (Identity, error) {
	if cred.Kind != KindBearer {
		return Identity{}, unauthorized("missing bearer token", nil)
	}
	tokenString, ok := strings.CutPrefix(cred.Value, bearerPrefix)
	tokenString = strings.TrimSpace(tokenString)
	if !ok || tokenString == "" {
		return Identity{}, unauthorized("invalid authorization header format", nil)
	}

	claims, err := v.parse(tokenString)
	if err != nil {
		return Identity{}, unauthorized("Invalid Bearer token", err)
	}
	if claims.Subject == "" || !v.users.Exists(claims.Subject) {
		return Identity{}, unauthorized("Invalid Bearer token", fmt.Errorf("unknown subject %q", claims.Subject))
	}
	return Identity{Subject: claims.Subject, Kind: KindBearer}, nil
}

func (v *BearerVerifier) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func unauthorized(message string, cause error) error {
	err := models.ErrUnauthorized.WithField("", message)
	if cause != nil {
		return err.Wrap(cause)
	}
	return err
}

// dummyHash is compared against for unknown usernames, so a miss costs as
// much as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("product-gateway"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// PasswordVerifier checks a username and password against stored bcrypt
// hashes. It backs token issuance only.
type PasswordVerifier struct {
	users   UserStore
	compare func(hash, password []byte) error
}

func NewPasswordVerifier(users UserStore) *PasswordVerifier {
	return &PasswordVerifier{users: users, compare: bcrypt.CompareHashAndPassword}
}

func (v *PasswordVerifier) Verify(_ context.Context, cred Credential) (Identity, error) {
	if cred.Kind != KindBasic {
		return Identity{}, models.ErrAuthenticationFailed
	}
	hash, ok := v.users.PasswordHash(cred.Username)
	if !ok {
		_ = v.compare(dummyHash(), []byte(cred.Password))
		return Identity{}, models.ErrAuthenticationFailed
	}
	if err := v.compare(hash, []byte(cred.Password)); err != nil {
		return Identity{}, models.ErrAuthenticationFailed.Wrap(err)
	}
	return Identity{Subject: cred.Username, Kind: KindBasic}, nil
}
