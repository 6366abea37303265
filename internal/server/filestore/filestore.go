// Package filestore manages the lifecycle of uploaded image blobs. The
// database record is the canonical state; blobs are written before the
// database transaction and removed after it, so a failed write may at worst
// leave an orphaned file, never a dangling record.
package filestore

import (
	"context"
	"io"
)

// Store persists and deletes image blobs.
type Store interface {
	// Save writes the blob and returns the path (or object key) under which
	// it was stored. ext is the file extension without the dot.
	Save(ctx context.Context, ext string, r io.Reader) (string, error)

	// Remove deletes a previously stored blob. Callers treat removal as
	// best-effort cleanup: failures are logged, never surfaced.
	Remove(ctx context.Context, path string) error
}
