/*
Package jwt issues and verifies the HS256 session tokens used by the service.

Tokens are stateless: the server keeps nothing per session and a token is valid exactly
as long as its signature verifies with the shared secret and its expiry has not passed.
*/
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionExpiration is the lifetime of login and guest session tokens.
	SessionExpiration = 1 * time.Hour

	// TokenIssuer identifies this service in the iss claim.
	TokenIssuer = "storyauth"
)

var (
	// ErrMissingSecret is returned by NewIssuer when the signing secret is blank.
	ErrMissingSecret = errors.New("jwt: signing secret is not configured")

	// ErrEmptySubject is returned by Issue for a blank subject.
	ErrEmptySubject = errors.New("jwt: subject is empty")

	// ErrInvalidTTL is returned by Issue for a non-positive ttl.
	ErrInvalidTTL = errors.New("jwt: ttl must be positive")
)

// Issuer signs and verifies session tokens with a single shared secret.
// It holds no mutable state and is safe for concurrent use.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now as the source of issue and validation times.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer for secret. A blank secret is a configuration error.
func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}

	i := &Issuer{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue creates and signs a token for subject that expires ttl from now.
func (i *Issuer) Issue(subject string, guest bool, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := i.now()

	claims := Claims{
		UserID: subject,
		Guest:  guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm, issuer and expiry of tokenString.
// It returns the claims and true for a valid token, and false for anything else.
func (i *Issuer) Verify(tokenString string) (Claims, bool) {
	if tokenString == "" {
		return Claims{}, false
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, false
	}

	if claims.UserID == "" || claims.UserID != claims.Subject {
		return Claims{}, false
	}

	return *claims, true
}
