package authtoken

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newPair(t *testing.T, clock *fakeClock) (*Issuer, *Validator) {
	t.Helper()
	cfg := Config{Secret: testSecret, Issuer: "auth-service", TTL: time.Hour, Now: clock.Now}
	iss, err := NewIssuer(cfg)
	require.NoError(t, err)
	val, err := NewValidator(cfg)
	require.NoError(t, err)
	return iss, val
}

func TestIssueAndValidate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss, val := newPair(t, clock)

	tok, err := iss.Issue("alice", []string{"ROLE_INSTRUCTOR", "ROLE_ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(time.Hour), tok.ExpiresAt)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_INSTRUCTOR"}, tok.Authorities)

	p, err := val.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Subject)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_INSTRUCTOR"}, p.Authorities)
	assert.Equal(t, tok.ID, p.TokenID)
	assert.Equal(t, tok.IssuedAt, p.IssuedAt)
	assert.Equal(t, tok.ExpiresAt, p.ExpiresAt)
}

func TestIssue_AuthoritiesAreSnapshot(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	iss, val := newPair(t, clock)

	roles := []string{"ROLE_USER"}
	tok, err := iss.Issue("bob", roles)
	require.NoError(t, err)
	roles[0] = "ROLE_ADMIN"

	p, err := val.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_USER"}, p.Authorities)
}

func TestValidate_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss, val := newPair(t, clock)

	tok, err := iss.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour + time.Second)
	_, err = val.Validate(tok.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_TamperedSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	iss, val := newPair(t, clock)

	tok, err := iss.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = val.Validate(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_TamperedPayload(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	iss, val := newPair(t, clock)

	user, err := iss.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)
	admin, err := iss.Issue("alice", []string{"ROLE_ADMIN"})
	require.NoError(t, err)

	u := strings.Split(user.Value, ".")
	a := strings.Split(admin.Value, ".")
	forged := u[0] + "." + a[1] + "." + u[2]

	_, err = val.Validate(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Rejects(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	_, val := newPair(t, clock)

	otherIssuer, err := NewIssuer(Config{Secret: []byte("ffffffffffffffffffffffffffffffff"), Issuer: "auth-service", Now: clock.Now})
	require.NoError(t, err)
	wrongKey, err := otherIssuer.Issue("alice", nil)
	require.NoError(t, err)

	foreignIssuer, err := NewIssuer(Config{Secret: testSecret, Issuer: "someone-else", Now: clock.Now})
	require.NoError(t, err)
	wrongIss, err := foreignIssuer.Issue("alice", nil)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"iss": "auth-service",
	}).SignedString(testSecret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"iss": "auth-service",
		"exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"wrong key":    wrongKey.Value,
		"wrong issuer": wrongIss.Value,
		"missing exp":  noExp,
		"other alg":    hs512,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := val.Validate(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestNewIssuer_WeakSecret(t *testing.T) {
	_, err := NewIssuer(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewValidator(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	iss, err := NewIssuer(Config{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, iss.TTL())
}

func TestIssue_EmptySubject(t *testing.T) {
	iss, err := NewIssuer(Config{Secret: testSecret})
	require.NoError(t, err)
	_, err = iss.Issue("", nil)
	assert.Error(t, err)
}
