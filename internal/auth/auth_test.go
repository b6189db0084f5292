package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	usersOnce sync.Once
	testUsers *Users
)

func fixtureUsers(t *testing.T) *Users {
	t.Helper()
	usersOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("wonderland"), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		testUsers, err = NewUsers([]UserRecord{
			{Username: "alice", PasswordHash: string(hash)},
			{Username: "bob", Password: "builder"},
		})
		if err != nil {
			panic(err)
		}
	})
	return testUsers
}

func fixtureConfig(clock *fakeClock) Config {
	return Config{
		APIKeys:  []string{"secret123", "other-key"},
		Secret:   []byte("test-signing-secret"),
		TokenTTL: 30 * time.Minute,
		Issuer:   "product-gateway",
		Now:      clock.Now,
	}
}

func TestAPIKeyVerifier(t *testing.T) {
	v := NewAPIKeyVerifier(fixtureConfig(&fakeClock{now: time.Now()}))

	for _, key := range []string{"secret123", "other-key"} {
		id, err := v.Verify(context.Background(), APIKey(key))
		require.NoError(t, err)
		assert.Equal(t, KindAPIKey, id.Kind)
	}

	for _, key := range []string{"", "secret", "SECRET123", "secret123 "} {
		_, err := v.Verify(context.Background(), APIKey(key))
		assert.ErrorIs(t, err, models.ErrForbidden, "key %q", key)
	}
}

func TestProperty_APIKeyOutsideAllowSetIsForbidden(t *testing.T) {
	v := NewAPIKeyVerifier(fixtureConfig(&fakeClock{now: time.Now()}))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("keys outside the allow-set are forbidden", prop.ForAll(
		func(key string) bool {
			_, err := v.Verify(context.Background(), APIKey(key))
			return models.AsKind(err) == models.KindForbidden
		},
		gen.AnyString().SuchThat(func(s string) bool {
			return s != "secret123" && s != "other-key"
		}),
	))

	properties.TestingRun(t)
}

func TestTokenLifecycle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	cfg := fixtureConfig(clock)
	users := fixtureUsers(t)
	issuer := NewTokenIssuer(cfg, users)
	verifier := NewBearerVerifier(cfg, users)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, token.IssuedAt.Add(30*time.Minute), token.ExpiresAt)

	id, err := verifier.Verify(ctx, Bearer("Bearer "+token.Value))
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "alice", Kind: KindBearer}, id)

	clock.Advance(29 * time.Minute)
	_, err = verifier.Verify(ctx, Bearer("Bearer "+token.Value))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = verifier.Verify(ctx, Bearer("Bearer "+token.Value))
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestIssue_RejectsBadCredentials(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := NewTokenIssuer(fixtureConfig(clock), fixtureUsers(t))

	_, err := issuer.Issue(context.Background(), "alice", "looking-glass")
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)

	_, err = issuer.Issue(context.Background(), "mallory", "wonderland")
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)

	token, err := issuer.Issue(context.Background(), "bob", "builder")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
}

func TestPasswordVerifier_UnknownUserStillCompares(t *testing.T) {
	v := NewPasswordVerifier(fixtureUsers(t))
	var hashes [][]byte
	v.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, err := v.Verify(context.Background(), Basic("mallory", "wonderland"))
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
	require.Len(t, hashes, 1)
	assert.Equal(t, dummyHash(), hashes[0])

	_, err = v.Verify(context.Background(), Basic("alice", "looking-glass"))
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
	require.Len(t, hashes, 2)
	assert.NotEqual(t, dummyHash(), hashes[1])
}

func TestBearerVerifier_Rejections(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cfg := fixtureConfig(clock)
	users := fixtureUsers(t)
	verifier := NewBearerVerifier(cfg, users)

	sign := func(claims jwt.RegisteredClaims, secret []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(clock.Now()),
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
	}
	unknown := valid
	unknown.Subject = "mallory"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"missing prefix", sign(valid, cfg.Secret)},
		{"lowercase prefix", "bearer " + sign(valid, cfg.Secret)},
		{"prefix only", "Bearer "},
		{"garbage", "Bearer not-a-token"},
		{"static bearer", "Bearer bearer-abc-123"},
		{"wrong secret", "Bearer " + sign(valid, []byte("other"))},
		{"unknown subject", "Bearer " + sign(unknown, cfg.Secret)},
		{"no expiry", "Bearer " + sign(noExpiry, cfg.Secret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), Bearer(tt.header))
			assert.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}

	_, err := verifier.Verify(context.Background(), Bearer("Bearer "+sign(valid, cfg.Secret)))
	assert.NoError(t, err)
}

func TestVerifiers_Dispatch(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cfg := fixtureConfig(clock)
	users := fixtureUsers(t)
	vs := Verifiers{
		KindAPIKey: NewAPIKeyVerifier(cfg),
		KindBearer: NewBearerVerifier(cfg, users),
	}

	_, err := vs.Verify(context.Background(), APIKey("secret123"))
	assert.NoError(t, err)

	_, err = vs.Verify(context.Background(), Basic("alice", "wonderland"))
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestParseUsers(t *testing.T) {
	users, err := ParseUsers([]byte(`
- username: alice
  password: wonderland
- username: carol
  password: secret
`))
	require.NoError(t, err)
	assert.Equal(t, 2, users.Len())
	assert.True(t, users.Exists("alice"))
	assert.False(t, users.Exists("bob"))

	_, err = ParseUsers([]byte(`- username: alice`))
	assert.Error(t, err)

	_, err = ParseUsers([]byte("- username: a\n  password: x\n- username: a\n  password: y\n"))
	assert.Error(t, err)

	_, err = ParseUsers([]byte("- username: a\n  password_hash: not-bcrypt\n"))
	assert.Error(t, err)
}
