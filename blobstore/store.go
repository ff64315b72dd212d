package blobstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is a flat namespace of immutable blobs. Names use forward slashes.
type Store interface {
	// Put writes a blob atomically, replacing an existing one.
	Put(ctx context.Context, name string, data []byte) error
	// Get reads a whole blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes a blob. Deleting a missing blob succeeds.
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects empty, absolute and parent-relative names.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("blobstore: empty name")
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("blobstore: absolute name %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." || part == "" {
			return fmt.Errorf("blobstore: invalid name %q", name)
		}
	}
	if path.Clean(name) != name {
		return fmt.Errorf("blobstore: invalid name %q", name)
	}
	return nil
}
