package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps files in a directory on disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	return f.Close()
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	err := os.Remove(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (s *LocalStore) URL(name string) string {
	return "/uploads/" + name
}

// Path is the on-disk location of name. Callers must check ValidName first.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}
