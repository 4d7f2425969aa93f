package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims is the claim set carried by every session token.
//
// UserID duplicates the registered "sub" claim under the name the web client reads.
// Guest is true for anonymous sessions, whose subject is never stored anywhere.
type Claims struct {
	// UserID is the registered user id or the generated guest subject.
	UserID string `json:"user_id"`

	// Guest marks sessions issued by the guest endpoint.
	Guest bool `json:"guest"`

	// RegisteredClaims carries sub, iss, iat and exp.
	jwt.RegisteredClaims
}
