// Package authtoken issues and validates the signed tokens that carry a
// subject and its authorities between the auth service and every resource
// server.
//
// Wire format: an HS256 JWT with the claims
//
//	sub          username
//	authorities  canonical role names, sorted
//	iat, nbf     issue time (seconds)
//	exp          iat + TTL
//	iss          configured issuer (optional)
//	jti          random UUID
//
// Issuer and Validator must be configured with the same secret and issuer.
package authtoken

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hasandag/auth-service/pkg/principal"
)

// MinSecretLength is the shortest HMAC secret accepted, in bytes.
const MinSecretLength = 32

const defaultTTL = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrWeakSecret   = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
)

// Config is shared by Issuer and Validator.
type Config struct {
	Secret []byte
	Issuer string
	// TTL is only used by the Issuer. Defaults to 24h.
	TTL time.Duration
	// Now overrides the clock; tests only.
	Now func() time.Time
}

// Claims is the JWT payload.
type Claims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Token is an issued token together with the values encoded in it.
type Token struct {
	Value       string
	ID          string
	Subject     string
	Authorities []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

func (c Config) clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}

// Issuer mints tokens.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{secret: cfg.Secret, issuer: cfg.Issuer, ttl: ttl, now: cfg.clock()}, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for subject valid until now+TTL. The authorities are
// copied, so later changes to the caller's slice do not affect the token.
func (i *Issuer) Issue(subject string, authorities []string) (*Token, error) {
	if subject == "" {
		return nil, errors.New("issue token: empty subject")
	}

	auths := append([]string(nil), authorities...)
	sort.Strings(auths)

	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)
	id := uuid.NewString()

	claims := Claims{
		Authorities: auths,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:       signed,
		ID:          id,
		Subject:     subject,
		Authorities: auths,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Validator verifies tokens produced by an Issuer sharing its secret.
type Validator struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewValidator(cfg Config) (*Validator, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &Validator{secret: cfg.Secret, issuer: cfg.Issuer, now: cfg.clock()}, nil
}

// Validate checks signature, algorithm and expiry. An expired token fails
// with ErrTokenExpired; every other defect fails with ErrTokenInvalid.
func (v *Validator) Validate(token string) (*principal.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	p := &principal.Principal{
		Subject:     claims.Subject,
		Authorities: append([]string(nil), claims.Authorities...),
		TokenID:     claims.ID,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return p, nil
}
