package handler

import (
	"net/http"

	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
	"storyauth/internal/pkg/req"
	"storyauth/internal/pkg/resp"
)

// PowVerifyInput is a client's solution to a challenge.
type PowVerifyInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandlePowChallenge hands out a fresh nonce and the required difficulty.
func HandlePowChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Pow.NewChallenge())
	}
}

// HandlePowVerify trades a valid solution for a single-use proof token.
func HandlePowVerify(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PowVerifyInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		token, err := deps.Pow.ValidateProof(input.Nonce, input.Counter)
		if err != nil {
			logx.Ctx(r.Context()).Warn().Err(err).Msg("proof-of-work verification failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"powToken": token,
		})
	}
}
