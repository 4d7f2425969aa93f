/*
Package storage presigns uploads and downloads of character images on S3-compatible
object storage. The service never proxies object bytes: clients PUT and GET directly
against the presigned URLs.
*/
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Stat for a key with no stored object.
var ErrObjectNotFound = errors.New("storage: object not found")

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ObjectInfo is the subset of object metadata the service reads back.
type ObjectInfo struct {
	ContentType string
	Size        int64
}

// StorageService defines the operations the asset endpoints need from object storage.
type StorageService interface {
	// PresignUpload returns a URL that accepts one PUT of exactly fileSize bytes of mimeType.
	PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// PresignDownload returns a URL that serves key.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Stat returns metadata for key, or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// NewStorageService returns the S3-compatible implementation for cfg.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	return newS3Client(ctx, cfg)
}
