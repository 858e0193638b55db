package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// File stores the snapshot in a JSON file.
//
// Writes go to a temporary file in the same folder that is then renamed, so a
// crash never leaves a truncated snapshot behind.
type File struct {
	Path string
}

// NewFile returns a store for path.
func NewFile(path string) *File { return &File{Path: path} }

// Load implements folio.SnapshotStore.
func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: f.Path, Err: err}
	}
	return data, nil
}

// Save implements folio.SnapshotStore.
func (f *File) Save(ctx context.Context, data []byte) error {
	if err := f.save(data); err != nil {
		return &PersistenceError{Op: "save", Key: f.Path, Err: err}
	}
	return nil
}

func (f *File) save(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return err
	}
	// no effect once renamed.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
