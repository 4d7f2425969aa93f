package handler

import (
	"context"
	"net/http"
	"time"

	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/resp"
)

const readinessTimeout = 2 * time.Second

// HandleHealth reports that the process is up. It does not touch dependencies.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "storyauth",
		})
	}
}

// HandleReady reports whether the credential store answers a ping.
func HandleReady(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := deps.Auth.Ping(ctx); err != nil {
			logx.Ctx(r.Context()).Error().Err(err).Msg("readiness check failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreUnavailable))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"status": "ready",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
