/*
Package auth implements signup, login and guest sessions on top of a user.Store,
a password.Hasher and a jwt.Issuer.

The Service holds no mutable state of its own. Everything it needs is passed to
NewService, so handlers and tests construct it explicitly.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"storyauth/internal/app/user"
	"storyauth/internal/pkg/auth/jwt"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/password"
	"storyauth/internal/pkg/randx"
)

const (
	// MaxUserIDLength is the longest accepted user_id, in characters.
	MaxUserIDLength = 200

	// Operation names reported to the outcome observer.
	OpSignup = "signup"
	OpLogin  = "login"
	OpGuest  = "guest"
)

var (
	// ErrInvalidUserID is returned for a user_id that is empty, too long, uses
	// characters outside the allowed set or starts with the guest prefix.
	ErrInvalidUserID = errors.New("auth: invalid user id")

	// ErrInvalidPassword is returned for an empty password or one over password.MaxLength bytes.
	ErrInvalidPassword = errors.New("auth: invalid password")

	// ErrUserExists is returned by Signup when the user_id is taken.
	ErrUserExists = user.ErrUserExists

	// ErrUserNotFound is returned by Login when no user has the given id.
	ErrUserNotFound = user.ErrUserNotFound

	// ErrInvalidCredentials is returned by Login when the password does not match.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

var userIDRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)

// GuestSession is the result of Guest.
type GuestSession struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Session describes the identity carried by a verified token.
type Session struct {
	UserID    string    `json:"user_id"`
	Guest     bool      `json:"guest"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service orchestrates the credential and session operations.
type Service struct {
	store  user.Store
	hasher *password.Hasher
	issuer *jwt.Issuer

	ttl        time.Duration
	newGuestID func() (string, error)
	now        func() time.Time
	observe    func(op, outcome string)
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides jwt.SessionExpiration for issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithGuestIDFunc replaces randx.GuestID as the guest subject generator.
func WithGuestIDFunc(fn func() (string, error)) Option {
	return func(s *Service) { s.newGuestID = fn }
}

// WithClock replaces time.Now for created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOutcomeObserver registers a callback invoked once per operation with its outcome.
func WithOutcomeObserver(fn func(op, outcome string)) Option {
	return func(s *Service) { s.observe = fn }
}

// NewService wires a Service. The store, hasher and issuer are required.
func NewService(store user.Store, hasher *password.Hasher, issuer *jwt.Issuer, opts ...Option) *Service {
	s := &Service{
		store:      store,
		hasher:     hasher,
		issuer:     issuer,
		ttl:        jwt.SessionExpiration,
		newGuestID: randx.GuestID,
		now:        time.Now,
		observe:    func(string, string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateUserID reports whether id is acceptable as a registered user_id.
func ValidateUserID(id string) error {
	n := utf8.RuneCountInString(id)
	if n == 0 || n > MaxUserIDLength || !utf8.ValidString(id) {
		return ErrInvalidUserID
	}
	if strings.HasPrefix(id, randx.GuestIDPrefix) {
		return ErrInvalidUserID
	}
	if !userIDRegex.MatchString(id) {
		return ErrInvalidUserID
	}
	return nil
}

// ValidatePassword reports whether pw is within the accepted length.
func ValidatePassword(pw string) error {
	if len(pw) == 0 || len(pw) > password.MaxLength {
		return ErrInvalidPassword
	}
	return nil
}

// Signup registers userID with password and returns the stored user_id.
func (s *Service) Signup(ctx context.Context, userID, pw string) (string, error) {
	if err := ValidateUserID(userID); err != nil {
		s.observe(OpSignup, "invalid_input")
		return "", err
	}
	if err := ValidatePassword(pw); err != nil {
		s.observe(OpSignup, "invalid_input")
		return "", err
	}

	// Reject known duplicates before paying for a bcrypt hash.
	_, err := s.store.GetByID(ctx, userID)
	switch {
	case err == nil:
		s.observe(OpSignup, "conflict")
		return "", ErrUserExists
	case !errors.Is(err, user.ErrUserNotFound):
		s.observe(OpSignup, "error")
		return "", fmt.Errorf("auth: signup lookup: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, pw)
	if err != nil {
		s.observe(OpSignup, "error")
		return "", fmt.Errorf("auth: signup hash: %w", err)
	}

	err = s.store.Create(ctx, user.User{
		UserID:       userID,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			s.observe(OpSignup, "conflict")
			return "", ErrUserExists
		}
		s.observe(OpSignup, "error")
		return "", fmt.Errorf("auth: signup create: %w", err)
	}

	logx.Ctx(ctx).Info().Str("user_id", userID).Msg("user registered")
	s.observe(OpSignup, "success")
	return userID, nil
}

// Login checks userID and password and returns a registered session token.
func (s *Service) Login(ctx context.Context, userID, pw string) (string, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.observe(OpLogin, "not_found")
			return "", ErrUserNotFound
		}
		s.observe(OpLogin, "error")
		return "", fmt.Errorf("auth: login lookup: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, pw, u.PasswordHash)
	if err != nil {
		s.observe(OpLogin, "error")
		return "", fmt.Errorf("auth: login verify: %w", err)
	}
	if !ok {
		s.observe(OpLogin, "bad_password")
		return "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.UserID, false, s.ttl)
	if err != nil {
		s.observe(OpLogin, "error")
		return "", fmt.Errorf("auth: login issue: %w", err)
	}

	s.observe(OpLogin, "success")
	return token, nil
}

// Guest issues a guest session for a fresh random subject. It does not touch the store.
func (s *Service) Guest(ctx context.Context) (GuestSession, error) {
	subject, err := s.newGuestID()
	if err != nil {
		s.observe(OpGuest, "error")
		return GuestSession{}, fmt.Errorf("auth: guest id: %w", err)
	}

	token, err := s.issuer.Issue(subject, true, s.ttl)
	if err != nil {
		s.observe(OpGuest, "error")
		return GuestSession{}, fmt.Errorf("auth: guest issue: %w", err)
	}

	logx.Ctx(ctx).Debug().Str("user_id", subject).Msg("guest session issued")
	s.observe(OpGuest, "success")
	return GuestSession{Token: token, UserID: subject}, nil
}

// Session describes the identity in claims previously returned by jwt.Issuer.Verify.
func (s *Service) Session(claims jwt.Claims) Session {
	out := Session{UserID: claims.UserID, Guest: claims.Guest}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out
}

// Ping reports whether the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
