package jwt

import (
	"context"
	"net/http"
	"strings"

	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/resp"
)

// contextKey keeps the claims key private to this package.
type contextKey string

const (
	// ContextAuthClaimsKey is the context key under which verified Claims are stored.
	ContextAuthClaimsKey contextKey = "auth_claims"
)

// BearerToken returns the token from an "Authorization: Bearer <token>" header, or "".
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityExtractorMiddleware verifies the bearer token, if any, and stores its Claims
// in the request context. It never rejects a request: a missing or invalid token
// leaves the caller anonymous and the decision to the handler.
func IdentityExtractorMiddleware(issuer *Issuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := BearerToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := issuer.Verify(tokenString)
			if !ok {
				logx.Ctx(r.Context()).Warn().Msg("invalid or expired session token, treating as anonymous")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the Claims stored by IdentityExtractorMiddleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ContextAuthClaimsKey).(Claims)
	return claims, ok
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRegistered rejects anonymous requests with 401 and guest sessions with 403.
func RequireRegistered(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		if claims.Guest {
			resp.RespondError(w, r, errs.NewError(errs.ErrRegisteredOnly))
			return
		}
		next.ServeHTTP(w, r)
	})
}
