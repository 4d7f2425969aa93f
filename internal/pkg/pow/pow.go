/*
Package pow implements a Proof-of-Work gate for anonymous endpoints.

A client fetches a nonce, searches for a counter such that the hex SHA-256 of
nonce+counter starts with difficulty zeros, and trades the solution for a short-lived
proof token. Each nonce and each proof token can be used once.
*/
package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/resp"
)

const (
	// TokenHeaderKey is the header carrying the proof token.
	TokenHeaderKey = "X-PoW-Token"

	// ProofTokenDuration is how long a proof token stays redeemable.
	ProofTokenDuration = 30 * time.Second

	// NonceExpiryDuration is how long a challenge nonce stays solvable.
	NonceExpiryDuration = 5 * time.Minute

	cleanupInterval = time.Minute
)

var (
	// ErrNonceInvalid is returned for an unknown, expired or already used nonce.
	ErrNonceInvalid = errors.New("pow: nonce expired or invalid")

	// ErrProofInsufficient is returned when the hash lacks the required leading zeros.
	ErrProofInsufficient = errors.New("pow: proof does not meet difficulty")
)

// Challenge is handed to clients by the challenge endpoint.
type Challenge struct {
	Nonce      string `json:"nonce"`
	Difficulty int    `json:"difficulty"`
}

// Manager tracks outstanding nonces and proof tokens. It is safe for concurrent use.
type Manager struct {
	difficulty int
	now        func() time.Time
	log        zerolog.Logger

	// mu protects nonces and tokens.
	mu     sync.Mutex
	nonces map[string]time.Time
	tokens map[string]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager requiring difficulty leading hex zeros and starts its
// cleanup goroutine.
func NewManager(difficulty int, opts ...Option) *Manager {
	m := &Manager{
		difficulty: difficulty,
		now:        time.Now,
		log:        logx.Component("pow"),
		nonces:     make(map[string]time.Time),
		tokens:     make(map[string]time.Time),
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	go m.cleanupExpiredEntries()

	return m
}

// NewChallenge registers a fresh nonce.
func (m *Manager) NewChallenge() Challenge {
	nonce := uuid.NewString()

	m.mu.Lock()
	m.nonces[nonce] = m.now().Add(NonceExpiryDuration)
	m.mu.Unlock()

	return Challenge{Nonce: nonce, Difficulty: m.difficulty}
}

// Solves reports whether counter solves nonce at difficulty.
func Solves(nonce, counter string, difficulty int) bool {
	sum := sha256.Sum256([]byte(nonce + counter))
	return strings.HasPrefix(hex.EncodeToString(sum[:]), strings.Repeat("0", difficulty))
}

// ValidateProof checks the solution and, on success, consumes the nonce and returns
// a proof token.
func (m *Manager) ValidateProof(nonce, counter string) (string, error) {
	m.mu.Lock()
	expiry, ok := m.nonces[nonce]
	m.mu.Unlock()

	if !ok || m.now().After(expiry) {
		return "", ErrNonceInvalid
	}

	if !Solves(nonce, counter, m.difficulty) {
		return "", ErrProofInsufficient
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A concurrent request may have redeemed the nonce while we hashed.
	if _, ok := m.nonces[nonce]; !ok {
		return "", ErrNonceInvalid
	}
	delete(m.nonces, nonce)

	token := uuid.NewString()
	m.tokens[token] = m.now().Add(ProofTokenDuration)
	return token, nil
}

// ConsumeProofToken redeems token. It returns false for unknown, expired or reused tokens.
func (m *Manager) ConsumeProofToken(token string) bool {
	if token == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.tokens[token]
	if !ok {
		return false
	}
	delete(m.tokens, token)

	return !m.now().After(expiry)
}

// Middleware rejects requests without a redeemable proof token in TokenHeaderKey.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.ConsumeProofToken(r.Header.Get(TokenHeaderKey)) {
			logx.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("proof-of-work token missing or invalid")
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) cleanupExpiredEntries() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			nonces, tokens := m.sweep()
			m.log.Debug().Int("nonces", nonces).Int("tokens", tokens).Msg("proof-of-work cleanup finished")
		}
	}
}

// sweep drops expired nonces and tokens and reports how many of each remain.
func (m *Manager) sweep() (nonces, tokens int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for nonce, expiry := range m.nonces {
		if now.After(expiry) {
			delete(m.nonces, nonce)
		}
	}
	for token, expiry := range m.tokens {
		if now.After(expiry) {
			delete(m.tokens, token)
		}
	}
	return len(m.nonces), len(m.tokens)
}
