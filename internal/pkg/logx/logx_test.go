package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "203.0.113.77:5123", want: "203.0.113.0"},
		{in: "203.0.113.77", want: "203.0.113.0"},
		{in: "127.0.0.1:80", want: "127.0.0.1"},
		{in: "[2001:db8:1:2:3:4:5:6]:443", want: "2001:db8:1:2::"},
		{in: "not-an-ip", want: "unknown_ip"},
		{in: "", want: "unknown_ip"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, anonymizeIP(tt.in))
		})
	}
}

func TestInfo_WritesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	initGlobalLogger(&buf, false)

	Info("user signed up", "user_id", "alice")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "user signed up", entry["message"])
	assert.Equal(t, "alice", entry["user_id"])
}

func TestComponent_TagsEntries(t *testing.T) {
	var buf bytes.Buffer
	initGlobalLogger(&buf, false)

	log := Component("limiter")
	log.Info().Int("removed", 3).Msg("cleanup finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "limiter", entry["component"])
	assert.Equal(t, float64(3), entry["removed"])
}

func TestInfo_OddFieldsAreDropped(t *testing.T) {
	var buf bytes.Buffer
	initGlobalLogger(&buf, false)

	Info("odd", "only-key")

	assert.NotContains(t, buf.String(), "only-key\":")
	assert.Contains(t, buf.String(), "odd")
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	initGlobalLogger(&buf, false)

	Ctx(context.Background()).Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")

	scoped := zerolog.New(&buf).With().Str("scope", "req").Logger()
	ctx := scoped.WithContext(context.Background())
	Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, buf.String(), `"scope":"req"`)
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	initGlobalLogger(&buf, false)

	h := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusUnauthorized)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, `"status":401`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"remote_ip":"192.0.2.0"`)
}
