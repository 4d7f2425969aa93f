/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its client message and HTTP status.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status means 400 Bad Request.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrNotFound:              {Code: ErrNotFound, Message: "Not found.", Status: http.StatusNotFound},

	// 3xxx: User, Session, and Security Errors
	ErrPowChallengeRequired: {Code: ErrPowChallengeRequired, Message: "Verification required. Please try again.", Status: http.StatusForbidden},
	ErrPowChallengeInvalid:  {Code: ErrPowChallengeInvalid, Message: "Verification failed. Please try again."},
	ErrUserAlreadyExists:    {Code: ErrUserAlreadyExists, Message: "User already exists"},
	ErrUserNotFound:         {Code: ErrUserNotFound, Message: "User not found", Status: http.StatusNotFound},
	ErrInvalidCredentials:   {Code: ErrInvalidCredentials, Message: "Invalid credentials", Status: http.StatusUnauthorized},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidUserID:        {Code: ErrInvalidUserID, Message: "User ID must be 1-%d letters, digits or _.@+- and must not start with %q."},
	ErrInvalidPassword:      {Code: ErrInvalidPassword, Message: "Password must be 1-%d bytes long."},
	ErrRegisteredOnly:       {Code: ErrRegisteredOnly, Message: "Please create an account to use this feature.", Status: http.StatusForbidden},

	// 4xxx: Asset Errors
	ErrFileSizeTooLarge: {Code: ErrFileSizeTooLarge, Message: "File is too large."},
	ErrAssetKeyInvalid:  {Code: ErrAssetKeyInvalid, Message: "Invalid asset key."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Internal Server Error", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File storage failed. Please try again.", Status: http.StatusBadGateway},
	ErrStoreUnavailable:  {Code: ErrStoreUnavailable, Message: "Service is not ready.", Status: http.StatusServiceUnavailable},
}
