// Package blobs stores the raw bytes of uploaded objects.
//
// Keys are namespaced by owner: "<owner>/<uuid><ext>". Every backend
// failure is reported wrapped in common.ErrStorageUnavailable so callers
// can tell a retryable I/O fault from an authorization outcome.
package blobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharebox/internal/common"
)

// Store persists and retrieves object bytes.
type Store interface {
	// Write stores r under key and returns the number of bytes written.
	// key must live in ownerID's namespace.
	Write(ctx context.Context, ownerID, key string, r io.Reader) (int64, error)
	// Read opens the bytes stored under key. The caller closes the reader.
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

const maxExtLen = 16

// NewStorageKey returns a fresh key in ownerID's namespace, keeping the
// extension of displayName when it is a plain one.
func NewStorageKey(ownerID, displayName string) string {
	return ownerID + "/" + uuid.NewString() + safeExt(displayName)
}

func safeExt(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			return ""
		}
	}
	return strings.ToLower(ext)
}

// validKey rejects keys that could escape the store root.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.Contains(key, "..") {
		return fmt.Errorf("blobs: bad key %q: %w", key, common.ErrInvalidInput)
	}
	return nil
}

// checkOwnerKey ensures key is a valid key inside ownerID's namespace.
func checkOwnerKey(ownerID, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if ownerID == "" || !strings.HasPrefix(key, ownerID+"/") {
		return fmt.Errorf("blobs: key %q outside namespace of %q: %w", key, ownerID, common.ErrForbidden)
	}
	return nil
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("blobs: %s %q: %w: %w", op, key, common.ErrStorageUnavailable, err)
}

// IsMissing reports whether err says the requested bytes do not exist.
func IsMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
