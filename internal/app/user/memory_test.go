package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storyauth/internal/app/user"
	"storyauth/internal/app/user/usertest"
)

func TestContract_MemoryStore(t *testing.T) {
	usertest.RunStore(t, func(t *testing.T) (user.Store, func()) {
		t.Helper()
		return user.NewMemoryStore(), nil
	})
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := user.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Create(ctx, user.User{UserID: "alice"}), context.Canceled)
	assert.Equal(t, 0, s.Len())

	_, err := s.GetByID(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}
