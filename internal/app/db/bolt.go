package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"storyauth/internal/app/user"
)

var bucketUsers = []byte("users")

// boltRecord is the value stored under each user_id key.
type boltRecord struct {
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

// BoltStore is a user.Store backed by an embedded bbolt file.
// bbolt serializes write transactions, which makes the existence check in Create atomic.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if needed) the bbolt file at path.
func OpenBolt(path string) (*BoltStore, error) {
	bdb, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUsers)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("failed to create users bucket: %w", err)
	}

	return &BoltStore{db: bdb}, nil
}

func (s *BoltStore) Create(ctx context.Context, u user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(boltRecord{PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt.Unix()})
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUsers)
		if bucket == nil {
			return errors.New("users bucket not found")
		}

		key := []byte(u.UserID)
		if bucket.Get(key) != nil {
			return user.ErrUserExists
		}
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
}

func (s *BoltStore) GetByID(ctx context.Context, userID string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	var rec boltRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUsers)
		if bucket == nil {
			return errors.New("users bucket not found")
		}

		data := bucket.Get([]byte(userID))
		if data == nil {
			return user.ErrUserNotFound
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	return user.User{
		UserID:       userID,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    time.Unix(rec.CreatedAt, 0).UTC(),
	}, nil
}

func (s *BoltStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketUsers) == nil {
			return errors.New("users bucket not found")
		}
		return nil
	})
}

// Close closes the bbolt file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
