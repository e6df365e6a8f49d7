// Package storage persists uploaded images by file name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"campusgram/internal/config"

	"github.com/google/uuid"
)

// ErrNotExist is returned by Open when no object has the given name.
var ErrNotExist = errors.New("storage: object does not exist")

// Store is the image store behind posts. Names are flat, without directories.
type Store interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes name; a missing object is not an error.
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// New builds the store selected by STORAGE_BACKEND.
func New(cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return NewLocalStore(cfg.UploadDir)
	case "s3":
		return NewS3Store(S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

// UniqueName prefixes the sanitized original name with a random UUID.
func UniqueName(original string) string {
	return uuid.NewString() + "_" + SecureFilename(original)
}

// SecureFilename reduces a client-supplied name to ASCII letters, digits, '_', '.'
// and '-', joining whitespace runs with '_' and dropping path components.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "image"
	}
	return out
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("storage: invalid object name %q", name)
	}
	return nil
}
