package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/snapshare/backend/internal/filex"
)

// LocalStore keeps blobs on the local filesystem under a single directory,
// naming each file with a random uuid so uploads cannot collide.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the storage directory if needed and returns a store
// rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs}, nil
}

func (s *LocalStore) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	name := uuid.New().String() + "." + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}

// Remove deletes path. Paths outside the store's directory are rejected so a
// corrupted record cannot make the reconciler unlink arbitrary files.
func (s *LocalStore) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, s.dir+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside the upload dir", path)
	}
	return os.Remove(abs)
}
