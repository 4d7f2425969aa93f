package handler

import (
	"errors"
	"net/http"

	"storyauth/internal/app/auth"
	"storyauth/internal/pkg/auth/jwt"
	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/password"
	"storyauth/internal/pkg/randx"
	"storyauth/internal/pkg/req"
	"storyauth/internal/pkg/resp"
)

// CredentialsInput is the body of signup and login requests.
type CredentialsInput struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// HandleSignup registers a new user. It answers 201 with the stored user_id.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CredentialsInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		userID, err := deps.Auth.Signup(r.Context(), input.UserID, input.Password)
		if err != nil {
			if errors.Is(err, auth.ErrUserExists) {
				logx.Ctx(r.Context()).Warn().Str("user_id", input.UserID).Msg("signup conflict: user already exists")
			}
			resp.RespondError(w, r, authError(err))
			return
		}

		resp.RespondCreated(w, r, map[string]any{
			"success": true,
			"user_id": userID,
		})
	}
}

// HandleLogin verifies credentials and issues a registered session token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CredentialsInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		token, err := deps.Auth.Login(r.Context(), input.UserID, input.Password)
		if err != nil {
			resp.RespondError(w, r, authError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
		})
	}
}

// HandleGuest issues a guest session. The request body is ignored.
func HandleGuest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := deps.Auth.Guest(r.Context())
		if err != nil {
			resp.RespondError(w, r, authError(err))
			return
		}

		resp.RespondSuccess(w, r, session)
	}
}

// HandleSession echoes the identity carried by the caller's token.
// It is mounted behind jwt.RequireIdentity.
func HandleSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.ClaimsFromContext(r.Context())
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, deps.Auth.Session(claims))
	}
}

// authError maps auth.Service errors to client errors. Anything unrecognised is
// logged and reported as a generic server error.
func authError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, auth.ErrInvalidUserID):
		return errs.NewError(errs.ErrInvalidUserID, auth.MaxUserIDLength, randx.GuestIDPrefix)
	case errors.Is(err, auth.ErrInvalidPassword):
		return errs.NewError(errs.ErrInvalidPassword, password.MaxLength)
	case errors.Is(err, auth.ErrUserExists):
		return errs.NewError(errs.ErrUserAlreadyExists)
	case errors.Is(err, auth.ErrUserNotFound):
		return errs.NewError(errs.ErrUserNotFound)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errs.NewError(errs.ErrInvalidCredentials)
	default:
		return errs.NewError(errs.ErrUnknown, err)
	}
}
