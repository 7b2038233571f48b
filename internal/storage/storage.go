// Package storage keeps user-uploaded profile images, either in a local
// directory or in an S3-compatible bucket. Object names are always generated
// server-side; client filenames only contribute their extension.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrInvalidName  = errors.New("invalid object name")
	ErrInvalidImage = errors.New("invalid image")
)

// AllowedExtensions are the accepted profile image types.
var AllowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// AssetStore persists uploaded files under opaque names.
type AssetStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

var namePattern = regexp.MustCompile(`^[0-9a-f]{32}\.(jpg|jpeg|png|gif)$`)

// NewImageName returns a collision-resistant name that keeps the
// lower-cased extension of original. Unsupported extensions are rejected.
func NewImageName(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !AllowedExtensions[ext] {
		return "", ErrInvalidImage
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext, nil
}

// ValidName reports whether name could have come from NewImageName. Anything
// else (paths, dot segments, client-chosen names) is refused.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
