/*
Package handler provides the HTTP handlers and routing setup for the auth service.

This file defines the main Router, applying logging, CORS and metrics middleware to
every request, identity extraction to /api, and per-IP rate limiting to the
credential endpoints.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"storyauth/internal/pkg/auth/jwt"
	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/pow"
	"storyauth/internal/pkg/resp"
)

// Router builds the routing table for deps.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", pow.TokenHeaderKey},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
	})

	r.Get("/health", HandleHealth())
	r.Get("/ready", HandleReady(deps))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Tokens))

		api.Group(func(limited chi.Router) {
			limited.Use(deps.AuthLimiter.Middleware)

			limited.Post("/signup", HandleSignup(deps))
			limited.Post("/login", HandleLogin(deps))

			if deps.Pow != nil {
				limited.With(deps.Pow.Middleware).Post("/guest", HandleGuest(deps))
				limited.Get("/pow/challenge", HandlePowChallenge(deps))
			} else {
				limited.Post("/guest", HandleGuest(deps))
			}
		})

		if deps.Pow != nil {
			api.Post("/pow/verify", HandlePowVerify(deps))
		}

		api.With(jwt.RequireIdentity).Get("/session", HandleSession(deps))

		if deps.StorageService != nil {
			api.Route("/assets", func(assets chi.Router) {
				assets.Use(jwt.RequireRegistered)
				assets.Post("/presign-upload", HandlePresignUploadURL(deps))
				assets.Get("/presign-download", HandlePresignDownloadURL(deps))
			})
		}
	})

	return r
}
