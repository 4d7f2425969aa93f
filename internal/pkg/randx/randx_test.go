package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestID_Shape(t *testing.T) {
	seen := make(map[string]struct{})

	for range 200 {
		id, err := GuestID()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, GuestIDPrefix))
		assert.Len(t, id, len(GuestIDPrefix)+GuestIDRawLength)
		assert.True(t, IsValidGuestID(id), "generated id %q must validate", id)

		_, dup := seen[id]
		assert.False(t, dup, "duplicate guest id %q", id)
		seen[id] = struct{}{}
	}
}

func TestIsValidGuestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "guest_abcDEF12", want: true},
		{id: "guest_abcDEF1", want: false},
		{id: "guest_abcDEF123", want: false},
		{id: "guest_abc-EF12", want: false},
		{id: "user_abcDEF12", want: false},
		{id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidGuestID(tt.id))
		})
	}
}

func TestBase62_Alphabet(t *testing.T) {
	s, err := Base62(64)
	require.NoError(t, err)
	require.Len(t, s, 64)

	for _, c := range s {
		assert.True(t, strings.ContainsRune(Base62Chars, c))
	}
}

func TestObjectID(t *testing.T) {
	_, err := uuid.Parse(ObjectID())
	assert.NoError(t, err)
}
