package token

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/gatepass/identity"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/golang-jwt/jwt/v5"
)

type (
	// Claims is the signed payload: sub, role, iat and exp.
	Claims struct {
		Role string `json:"role"`
		jwt.RegisteredClaims
	}

	// Grant is what a successful login hands back.
	Grant struct {
		Token     string
		User      identity.User
		ExpiresAt time.Time
	}

	Service struct {
		secret   []byte
		username string
		password string
		ttl      time.Duration
		now      func() time.Time
		parser   *jwt.Parser
	}

	Option func(*Service)
)

// WithClock replaces time.Now as the source of issue and expiry times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New returns ErrNotConfigured unless cfg is Enabled.
func New(cfg Config, opts ...Option) (*Service, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret:   append([]byte(nil), cfg.Secret...),
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		ttl:      ttl,
		now:      time.Now,
		// expiry is checked by Verify against the injected clock
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Login checks the administrator credentials and signs a new token.
// A wrong username and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, username, password string) (Grant, error) {
	log := logutil.GetOrDefault(ctx)
	userOK := username == s.username
	passOK := sameSecret(password, s.password)
	if !userOK || !passOK {
		log.Debug().Bool("auth.user_match", userOK).Msg("Login rejected")
		return Grant{}, ErrInvalidCredentials
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Role: identity.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Grant{}, fmt.Errorf("token: unable to sign token, cause %w", err)
	}
	return Grant{
		Token:     signed,
		User:      claims.User(),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks the signature and expiry of tk and returns its payload.
func (s *Service) Verify(ctx context.Context, tk string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tk, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt != nil && s.now().Unix() > claims.ExpiresAt.Unix() {
		return nil, ErrExpired
	}
	return claims, nil
}

// User returns the caller-facing identity carried by the claims.
func (c *Claims) User() identity.User {
	return identity.User{Username: c.Subject, Role: c.Role}
}

// sameSecret compares fixed width digests so neither the length of the
// stored secret nor the position of the first differing byte leaks
// through timing.
func sameSecret(given, expected string) bool {
	g := sha256.Sum256([]byte(given))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(g[:], e[:]) == 1
}
