/*
Package resp provides helpers for writing JSON HTTP responses.

Success bodies are written as-is (for example {"token": "..."}); errors are written
as {"error": <message>, "code": <business code>} with the status carried by the error.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/logx"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	// Error is the client-facing error description.
	Error string `json:"error"`

	// Code is the business error code (see the errs package).
	Code int `json:"code"`
}

// RespondJSON sets the JSON headers and writes payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Ctx(r.Context()).Error().
			Err(err).
			Int("http_status", httpStatus).
			Msg("error encoding JSON response")

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	_, _ = w.Write(response)
}

// RespondSuccess writes data with HTTP 200.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, data)
}

// RespondCreated writes data with HTTP 201.
func RespondCreated(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusCreated, data)
}

// RespondError writes customErr using its status; a nil error is reported as ErrUnknown.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, ErrorResponse{
		Error: customErr.Message,
		Code:  customErr.Code,
	})
}
