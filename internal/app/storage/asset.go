package storage

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyauth/internal/pkg/errs"
	"storyauth/internal/pkg/randx"
)

const (
	// MaxAssetSizeMB is the largest character image accepted, in megabytes.
	MaxAssetSizeMB = 5

	// MaxAssetSize is MaxAssetSizeMB in bytes.
	MaxAssetSize = MaxAssetSizeMB * 1024 * 1024

	// PresignedURLDuration is how long presigned URLs stay valid.
	PresignedURLDuration = 5 * time.Minute

	// CharacterImagePrefix is the top-level key prefix for character images.
	CharacterImagePrefix = "characters"
)

// AllowedMIMETypes lists the accepted image types.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps accepted file extensions to their MIME type.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidateFileSize checks that a declared size is positive and within MaxAssetSize.
func ValidateFileSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if fileSize > MaxAssetSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}
	return nil
}

// ValidateFileType checks that mimeType is allowed and agrees with the extension of fileName.
func ValidateFileType(fileName, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)
	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	expectedMIME, ok := ExtToMIME[strings.ToLower(path.Ext(fileName))]
	if !ok || expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// CharacterImageKey returns a new object key under the owner's prefix, keeping the
// lower-cased extension of fileName.
func CharacterImageKey(userID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return ownerPrefix(userID) + randx.ObjectID() + ext
}

// OwnsKey reports whether key was produced by CharacterImageKey for userID.
func OwnsKey(userID, key string) bool {
	prefix := ownerPrefix(userID)
	if !strings.HasPrefix(key, prefix) {
		return false
	}

	name := key[len(prefix):]
	ext := path.Ext(name)
	if _, ok := ExtToMIME[ext]; !ok {
		return false
	}

	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil
}

func ownerPrefix(userID string) string {
	return CharacterImagePrefix + "/" + userID + "/"
}
