package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/teachingtorch/torch/pkg/types"
)

// fileExt is appended to every key to form its file name.
const fileExt = ".json"

// Dir is a KVStore that keeps each key in its own file under a data
// directory. Writes are atomic: the value goes to a temp file that is synced
// and then renamed over the target.
type Dir struct {
	mu     sync.RWMutex
	closed bool
	dir    string
}

// OpenDir creates dir if needed and returns a store rooted at it.
func OpenDir(dir string) (*Dir, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Dir{dir: dir}, nil
}

// Path returns the file that holds key.
func (d *Dir) Path(key string) string {
	return filepath.Join(d.dir, key+fileExt)
}

// Get reads the file for key.
func (d *Dir) Get(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return "", types.ErrStoreClosed
	}
	data, err := os.ReadFile(d.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", types.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), nil
}

// Set atomically replaces the file for key.
func (d *Dir) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return types.ErrStoreClosed
	}
	return writeAtomic(d.Path(key), []byte(value))
}

// Remove deletes the file for key. A missing file is not an error.
func (d *Dir) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return types.ErrStoreClosed
	}
	if err := os.Remove(d.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Close marks the store closed. Idempotent.
func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// writeAtomic writes data to path using the temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
