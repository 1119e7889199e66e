package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lenspost/internal/common"

	"github.com/google/uuid"
)

// MediaStore holds externally stored binaries addressed by an opaque
// string ref. An empty ref means "no media".
type MediaStore interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DiskStore keeps media files in a single local directory and serves
// refs as bare filenames.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir is the root the refs resolve against, exposed for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	ref := uuid.NewString() + "-" + filepath.Base(name)
	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", fmt.Errorf("storing media %q: %w", ref, common.ErrStorage)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing media %q: %w", ref, common.ErrStorage)
	}
	return ref, nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	// Base strips any path components a stored ref should never contain.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("removing media %q: %w", ref, common.ErrStorage)
	}
	return nil
}
