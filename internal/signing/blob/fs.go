package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps artifacts as flat files under a base directory. Good enough
// for a single-node deployment; the Store interface is what the rest of the
// service depends on, so swapping in object storage later is a driver change.
type FSStore struct {
	dir string
}

// NewFSStore creates the base directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("blob: create artifact dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Put(ctx context.Context, locator string, data []byte) error {
	path, err := s.path(locator)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("blob: locator %q already written", locator)
	}

	// Write to a temp file then rename so a crash mid-write never leaves a
	// half-written artifact behind a valid locator.
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("blob: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("blob: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("blob: close: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("blob: rename: %w", err)
	}
	return nil
}

func (s *FSStore) Get(ctx context.Context, locator string) ([]byte, error) {
	path, err := s.path(locator)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blob: read: %w", err)
	}
	return data, nil
}

func (s *FSStore) Delete(ctx context.Context, locator string) error {
	path, err := s.path(locator)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: delete: %w", err)
	}
	return nil
}

// Check confirms the artifact directory still exists and is writable.
func (s *FSStore) Check(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("blob: check: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob: check: %s is not a directory", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, ".check-*")
	if err != nil {
		return fmt.Errorf("blob: check: %w", err)
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)
	return nil
}

// path validates a locator and maps it into the base directory. Locators are
// single path elements; anything that could escape the directory is rejected.
func (s *FSStore) path(locator string) (string, error) {
	if locator == "" ||
		strings.ContainsAny(locator, `/\`) ||
		strings.Contains(locator, "..") ||
		strings.HasPrefix(locator, ".") {
		return "", ErrInvalidLocator
	}
	return filepath.Join(s.dir, locator), nil
}
