/*
Package password hashes and verifies user passwords with bcrypt.

Hashing is CPU-bound, so every Hasher bounds the number of bcrypt operations that run
at once with a weighted semaphore. Callers wait for a slot on their own goroutine and
stop waiting when their context ends.
*/
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"storyauth/internal/pkg/logx"
)

const (
	// DefaultCost is the bcrypt cost factor used for stored passwords.
	DefaultCost = 10

	// MaxLength is the bcrypt input limit in bytes.
	MaxLength = 72
)

// ErrTooLong is returned by Hash for passwords longer than MaxLength bytes.
var ErrTooLong = errors.New("password: longer than 72 bytes")

// Hasher hashes and verifies passwords.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted

	// observe, when set, receives the duration of every bcrypt call in seconds.
	observe func(op string, seconds float64)
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost to stay fast.
func WithCost(cost int) Option {
	return func(h *Hasher) { h.cost = cost }
}

// WithConcurrency caps the number of concurrent bcrypt operations.
// Values below 1 fall back to runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(h *Hasher) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		h.sem = semaphore.NewWeighted(int64(n))
	}
}

// WithObserver registers a callback that receives bcrypt timings.
func WithObserver(fn func(op string, seconds float64)) Option {
	return func(h *Hasher) { h.observe = fn }
}

// NewHasher returns a Hasher with DefaultCost and runtime.NumCPU() slots unless overridden.
func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{
		cost: DefaultCost,
		sem:  semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a salted bcrypt hash of password.
// The salt is random, so hashing the same password twice yields different strings.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > MaxLength {
		return "", ErrTooLong
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("password: waiting for hash slot: %w", err)
	}
	defer h.sem.Release(1)

	done := h.track("hash")
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	done()
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether password matches hash.
// Any mismatch, including a malformed hash, is reported as false with a nil error.
// The error is non-nil only when ctx ends before a hashing slot is free.
// Passwords longer than MaxLength never match: bcrypt would ignore the extra bytes.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if len(password) > MaxLength {
		return false, nil
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("password: waiting for verify slot: %w", err)
	}
	defer h.sem.Release(1)

	done := h.track("verify")
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	done()

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		logx.Warn("password verify against malformed hash", "error", err.Error())
		return false, nil
	}
}

func (h *Hasher) track(op string) func() {
	if h.observe == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		h.observe(op, time.Since(start).Seconds())
	}
}
