package pow

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T, difficulty int) (*Manager, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(difficulty, WithClock(clk.Now))
	t.Cleanup(m.Stop)
	return m, clk
}

// solve brute-forces a counter for nonce.
func solve(t *testing.T, nonce string, difficulty int) string {
	t.Helper()
	for i := 0; i < 1_000_000; i++ {
		c := strconv.Itoa(i)
		if Solves(nonce, c, difficulty) {
			return c
		}
	}
	t.Fatalf("no solution found for nonce %s", nonce)
	return ""
}

// failing brute-forces a counter that does not solve nonce.
func failing(nonce string, difficulty int) string {
	for i := 0; ; i++ {
		c := strconv.Itoa(i)
		if !Solves(nonce, c, difficulty) {
			return c
		}
	}
}

func TestValidateProof_IssuesSingleUseToken(t *testing.T) {
	m, _ := newTestManager(t, 2)

	ch := m.NewChallenge()
	assert.Equal(t, 2, ch.Difficulty)

	token, err := m.ValidateProof(ch.Nonce, solve(t, ch.Nonce, 2))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, m.ConsumeProofToken(token))
	assert.False(t, m.ConsumeProofToken(token))
}

func TestValidateProof_NonceIsSingleUse(t *testing.T) {
	m, _ := newTestManager(t, 1)
	ch := m.NewChallenge()
	counter := solve(t, ch.Nonce, 1)

	_, err := m.ValidateProof(ch.Nonce, counter)
	require.NoError(t, err)

	_, err = m.ValidateProof(ch.Nonce, counter)
	assert.ErrorIs(t, err, ErrNonceInvalid)
}

func TestValidateProof_Rejections(t *testing.T) {
	m, clk := newTestManager(t, 2)

	_, err := m.ValidateProof("unknown", "0")
	assert.ErrorIs(t, err, ErrNonceInvalid)

	ch := m.NewChallenge()
	_, err = m.ValidateProof(ch.Nonce, failing(ch.Nonce, 2))
	assert.ErrorIs(t, err, ErrProofInsufficient)

	expired := m.NewChallenge()
	clk.Advance(NonceExpiryDuration + time.Second)
	_, err = m.ValidateProof(expired.Nonce, solve(t, expired.Nonce, 2))
	assert.ErrorIs(t, err, ErrNonceInvalid)
}

func TestConsumeProofToken_Expires(t *testing.T) {
	m, clk := newTestManager(t, 1)
	ch := m.NewChallenge()
	token, err := m.ValidateProof(ch.Nonce, solve(t, ch.Nonce, 1))
	require.NoError(t, err)

	clk.Advance(ProofTokenDuration + time.Second)
	assert.False(t, m.ConsumeProofToken(token))
	assert.False(t, m.ConsumeProofToken(""))
}

func TestSweep_RemovesExpired(t *testing.T) {
	m, clk := newTestManager(t, 1)
	m.NewChallenge()
	m.NewChallenge()

	clk.Advance(NonceExpiryDuration + time.Second)
	nonces, tokens := m.sweep()
	assert.Zero(t, nonces)
	assert.Zero(t, tokens)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.nonces)
}

func TestMiddleware(t *testing.T) {
	m, _ := newTestManager(t, 1)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/guest", nil)
		if token != "" {
			r.Header.Set(TokenHeaderKey, token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := call("")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":3001`)

	ch := m.NewChallenge()
	token, err := m.ValidateProof(ch.Nonce, solve(t, ch.Nonce, 1))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(token).Code)
	assert.Equal(t, http.StatusForbidden, call(token).Code)
}
