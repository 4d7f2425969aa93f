/*
Package user defines registered users and the Credential Store contract.

A User is created once on signup and read on login. It is never updated or deleted
by this service. Every Store implementation must enforce user_id uniqueness atomically:
of two concurrent Create calls for the same id, exactly one succeeds.
*/
package user

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserExists is returned by Store.Create when the user_id is already taken.
	ErrUserExists = errors.New("user: already exists")

	// ErrUserNotFound is returned by Store.GetByID when no user has the given id.
	ErrUserNotFound = errors.New("user: not found")
)

// User is a registered account.
type User struct {
	// UserID is the unique login identifier chosen at signup.
	UserID string `json:"user_id"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Store persists users.
type Store interface {
	// Create inserts u. It returns ErrUserExists, leaving the stored row untouched,
	// when u.UserID is already present.
	Create(ctx context.Context, u User) error

	// GetByID returns the user with the given id or ErrUserNotFound.
	GetByID(ctx context.Context, userID string) (User, error)

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
}
