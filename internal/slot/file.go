package slot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File stores each key as <dir>/<key>.json. Writes go to a temp file in the
// same directory and are renamed into place, so a reader never observes a
// partially written value.
type File struct {
	dir    string
	closed bool
}

// OpenFile opens (creating if needed) a slot directory.
func OpenFile(dir string) (*File, error) {
	if dir == "" {
		return nil, unavailable("open", "", errors.New("empty directory"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, unavailable("open", "", err)
	}
	return &File{dir: dir}, nil
}

// Read returns the contents of the key's file.
func (f *File) Read(ctx context.Context, key string) (string, error) {
	path, err := f.path("read", key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", unavailable("read", key, err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", unavailable("read", key, err)
	}
	return string(data), nil
}

// Write atomically replaces the key's file.
func (f *File) Write(ctx context.Context, key, value string) error {
	path, err := f.path("write", key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("write", key, err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return unavailable("write", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return unavailable("write", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return unavailable("write", key, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return unavailable("write", key, err)
	}
	return nil
}

// Close marks the slot closed.
func (f *File) Close() error {
	f.closed = true
	return nil
}

func (f *File) path(op, key string) (string, error) {
	if f.closed {
		return "", unavailable(op, key, errors.New("slot closed"))
	}
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", unavailable(op, key, fmt.Errorf("invalid key"))
	}
	return filepath.Join(f.dir, key+".json"), nil
}
