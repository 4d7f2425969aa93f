// Package usertest holds the behaviour every user.Store implementation must satisfy.
package usertest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyauth/internal/app/user"
)

// CleanupFunc releases a store created by a StoreFactory.
type CleanupFunc = func()

// StoreFactory returns a fresh, empty store for one subtest.
type StoreFactory func(t *testing.T) (user.Store, CleanupFunc)

// RunStore runs the Credential Store contract against stores built by newStore.
func RunStore(t *testing.T, newStore StoreFactory) {
	t.Helper()

	run := func(name string, fn func(t *testing.T, s user.Store)) {
		t.Run(name, func(t *testing.T) {
			s, cleanup := newStore(t)
			if cleanup != nil {
				t.Cleanup(cleanup)
			}
			fn(t, s)
		})
	}

	run("create then get", func(t *testing.T, s user.Store) {
		ctx := context.Background()
		created := time.Unix(1_700_000_000, 0).UTC()

		require.NoError(t, s.Create(ctx, user.User{UserID: "alice", PasswordHash: "hash-1", CreatedAt: created}))

		got, err := s.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.UserID)
		assert.Equal(t, "hash-1", got.PasswordHash)
		assert.True(t, got.CreatedAt.Equal(created), "created_at %v, want %v", got.CreatedAt, created)
	})

	run("unknown user", func(t *testing.T, s user.Store) {
		_, err := s.GetByID(context.Background(), "nobody")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	run("duplicate leaves original untouched", func(t *testing.T, s user.Store) {
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, user.User{UserID: "alice", PasswordHash: "hash-1"}))

		err := s.Create(ctx, user.User{UserID: "alice", PasswordHash: "hash-2"})
		assert.ErrorIs(t, err, user.ErrUserExists)

		got, err := s.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "hash-1", got.PasswordHash)
	})

	run("ids are case sensitive and unicode safe", func(t *testing.T, s user.Store) {
		ctx := context.Background()

		for i, id := range []string{"alice", "Alice", "작가", "writer@example.com"} {
			require.NoError(t, s.Create(ctx, user.User{UserID: id, PasswordHash: fmt.Sprintf("hash-%d", i)}))
		}

		got, err := s.GetByID(ctx, "작가")
		require.NoError(t, err)
		assert.Equal(t, "hash-2", got.PasswordHash)

		got, err = s.GetByID(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "hash-1", got.PasswordHash)
	})

	run("concurrent duplicate creates", func(t *testing.T, s user.Store) {
		ctx := context.Background()
		const workers = 16

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
			others    []error
		)

		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Create(ctx, user.User{UserID: "racer", PasswordHash: fmt.Sprintf("hash-%d", i)})

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case err == user.ErrUserExists:
					conflicts++
				default:
					others = append(others, err)
				}
			}()
		}
		wg.Wait()

		require.Empty(t, others)
		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, conflicts)
	})

	run("ping", func(t *testing.T, s user.Store) {
		assert.NoError(t, s.Ping(context.Background()))
	})
}
