/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside the server
and in the JSON bodies returned to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body is not valid JSON for the endpoint.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the client exceeded the request rate limit.
	ErrRateLimitExceeded = 1007

	// ErrNotFound indicates an unknown route or a feature that is not enabled.
	ErrNotFound = 1008
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the submitted Proof-of-Work is wrong or expired.
	ErrPowChallengeInvalid = 3002

	// ErrUserAlreadyExists indicates a signup for a user_id that is already registered.
	ErrUserAlreadyExists = 3101

	// ErrUserNotFound indicates a login for a user_id that is not registered.
	ErrUserNotFound = 3102

	// ErrInvalidCredentials indicates a login with the wrong password.
	ErrInvalidCredentials = 3103

	// ErrUnauthorized indicates a missing, invalid or expired session token.
	ErrUnauthorized = 3104

	// ErrInvalidUserID indicates a user_id outside the accepted length or alphabet.
	ErrInvalidUserID = 3105

	// ErrInvalidPassword indicates a password outside the accepted length.
	ErrInvalidPassword = 3106

	// ErrRegisteredOnly indicates a guest session calling an endpoint reserved for registered users.
	ErrRegisteredOnly = 3107
)

// 4xxx: Asset Errors
const (
	// ErrFileSizeTooLarge indicates that the declared asset size exceeds the limit.
	ErrFileSizeTooLarge = 4001

	// ErrAssetKeyInvalid indicates an asset key that does not belong to the caller.
	ErrAssetKeyInvalid = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that the object storage backend failed.
	ErrFileStorageFailed = 5001

	// ErrStoreUnavailable indicates that the credential store did not answer a readiness probe.
	ErrStoreUnavailable = 5002
)
