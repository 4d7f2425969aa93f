package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(t *testing.T, secret string, clk *fakeClock) *Issuer {
	t.Helper()
	iss, err := NewIssuer(secret, WithClock(clk.Now))
	require.NoError(t, err)
	return iss
}

func TestNewIssuer_MissingSecret(t *testing.T) {
	for _, secret := range []string{"", "   ", "\n\t"} {
		_, err := NewIssuer(secret)
		assert.ErrorIs(t, err, ErrMissingSecret)
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	iss := newTestIssuer(t, testSecret, clk)

	tests := []struct {
		name    string
		subject string
		guest   bool
	}{
		{name: "registered", subject: "alice", guest: false},
		{name: "guest", subject: "guest_abcDEF12", guest: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := iss.Issue(tt.subject, tt.guest, SessionExpiration)
			require.NoError(t, err)
			assert.Len(t, strings.Split(tok, "."), 3)

			claims, ok := iss.Verify(tok)
			require.True(t, ok)
			assert.Equal(t, tt.subject, claims.UserID)
			assert.Equal(t, tt.subject, claims.Subject)
			assert.Equal(t, tt.guest, claims.Guest)
			assert.Equal(t, TokenIssuer, claims.Issuer)
			assert.True(t, claims.IssuedAt.Time.Equal(clk.t))
			assert.True(t, claims.ExpiresAt.Time.Equal(clk.t.Add(SessionExpiration)))
		})
	}
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clk := &fakeClock{t: start}
	iss := newTestIssuer(t, testSecret, clk)

	tok, err := iss.Issue("alice", false, SessionExpiration)
	require.NoError(t, err)

	clk.t = start.Add(SessionExpiration - time.Second)
	_, ok := iss.Verify(tok)
	assert.True(t, ok, "token must be valid just before expiry")

	clk.t = start.Add(SessionExpiration)
	_, ok = iss.Verify(tok)
	assert.False(t, ok, "token must be invalid at expiry")

	clk.t = start.Add(2 * SessionExpiration)
	_, ok = iss.Verify(tok)
	assert.False(t, ok, "token must be invalid after expiry")
}

func TestVerify_IssuedInTheFuture(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clk := &fakeClock{t: start}
	iss := newTestIssuer(t, testSecret, clk)

	tok, err := iss.Issue("alice", false, SessionExpiration)
	require.NoError(t, err)

	clk.t = start.Add(-time.Minute)
	_, ok := iss.Verify(tok)
	assert.False(t, ok)
}

func TestVerify_WrongSecret(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	right := newTestIssuer(t, "right-secret", clk)
	wrong := newTestIssuer(t, "wrong-secret", clk)

	tok, err := right.Issue("alice", false, SessionExpiration)
	require.NoError(t, err)

	_, ok := wrong.Verify(tok)
	assert.False(t, ok)
}

func TestVerify_AnySingleByteAltered(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	iss := newTestIssuer(t, testSecret, clk)

	tok, err := iss.Issue("alice", false, SessionExpiration)
	require.NoError(t, err)

	for i := range len(tok) {
		b := []byte(tok)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}

		_, ok := iss.Verify(string(b))
		assert.False(t, ok, "token altered at byte %d must not verify", i)
	}
}

func TestVerify_Malformed(t *testing.T) {
	iss := newTestIssuer(t, testSecret, &fakeClock{t: time.Now()})

	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b", "...", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		_, ok := iss.Verify(tok)
		assert.False(t, ok, "token %q must not verify", tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(t, testSecret, &fakeClock{t: now})

	claims := Claims{
		UserID: "alice",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    TokenIssuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, ok := iss.Verify(hs512)
	assert.False(t, ok, "HS512 token must be rejected")

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok = iss.Verify(none)
	assert.False(t, ok, "unsigned token must be rejected")
}

func TestVerify_RejectsMissingExpiryAndForeignIssuer(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(t, testSecret, &fakeClock{t: now})

	noExp := Claims{
		UserID: "alice",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:  "alice",
			Issuer:   TokenIssuer,
			IssuedAt: gojwt.NewNumericDate(now),
		},
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, noExp).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, ok := iss.Verify(tok)
	assert.False(t, ok, "token without exp must be rejected")

	foreign := noExp
	foreign.Issuer = "someone-else"
	foreign.ExpiresAt = gojwt.NewNumericDate(now.Add(time.Hour))
	tok, err = gojwt.NewWithClaims(gojwt.SigningMethodHS256, foreign).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, ok = iss.Verify(tok)
	assert.False(t, ok, "token from another issuer must be rejected")

	mismatch := foreign
	mismatch.Issuer = TokenIssuer
	mismatch.UserID = "mallory"
	tok, err = gojwt.NewWithClaims(gojwt.SigningMethodHS256, mismatch).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, ok = iss.Verify(tok)
	assert.False(t, ok, "user_id must match sub")
}

func TestIssue_RejectsBadInput(t *testing.T) {
	iss := newTestIssuer(t, testSecret, &fakeClock{t: time.Now()})

	_, err := iss.Issue("", false, time.Hour)
	assert.ErrorIs(t, err, ErrEmptySubject)

	_, err = iss.Issue("alice", false, 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = iss.Issue("alice", false, -time.Second)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}
