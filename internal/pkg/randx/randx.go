/*
Package randx generates cryptographically secure random identifiers.

It produces guest subjects ("guest_" followed by Base62 characters) and object keys
for stored assets.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the number of characters in Base62Chars.
	Base62Len = int64(len(Base62Chars))

	// GuestIDPrefix marks a subject as a guest. Registered user ids may not use it.
	GuestIDPrefix = "guest_"

	// GuestIDRawLength is the length of the random Base62 part of a guest id.
	GuestIDRawLength = 8
)

// Base62 returns n characters drawn uniformly from Base62Chars using crypto/rand.
func Base62(n int) (string, error) {
	result := make([]byte, n)

	for i := range n {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// GuestID generates a new guest subject such as "guest_a8Xk20Qz".
func GuestID() (string, error) {
	raw, err := Base62(GuestIDRawLength)
	if err != nil {
		return "", fmt.Errorf("guest id: %w", err)
	}
	return GuestIDPrefix + raw, nil
}

// IsValidGuestID reports whether id has the exact shape produced by GuestID.
func IsValidGuestID(id string) bool {
	if !strings.HasPrefix(id, GuestIDPrefix) {
		return false
	}

	rawID := id[len(GuestIDPrefix):]

	if len(rawID) != GuestIDRawLength {
		return false
	}

	for _, char := range rawID {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}

// ObjectID returns a UUID v4 string used to name stored objects.
func ObjectID() string {
	return uuid.New().String()
}
