package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one file per person key under a base directory. Writes go
// to a temporary file in the same directory and are renamed into place, so a
// reader sees either the fully-old or fully-new record and a crash mid-write
// cannot leave a truncated one.
type FileStore struct {
	baseDir string
	ext     string
}

// NewFileStore creates the base directory if needed and returns a FileStore.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", baseDir, err)
	}
	return &FileStore{baseDir: baseDir, ext: ".yaml"}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.baseDir, key+f.ext)
}

// Get reads the record for key. A missing or empty file is ErrNoRecord.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoRecord
	}
	return data, nil
}

// Put atomically replaces the record for key.
func (f *FileStore) Put(ctx context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(f.baseDir, key+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

// Exists reports whether a non-empty record is present for key.
func (f *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Size() > 0, nil
}
