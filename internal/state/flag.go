package state

import (
	"fmt"
	"os"
)

// FlagStore is a file-presence switch. The file carries no payload; its
// existence is the whole state. Every probe hits the filesystem so that a
// toggle by one process is visible to all others on their next check.
type FlagStore struct {
	path string
}

// NewFlagStore creates a flag backed by the given file path.
func NewFlagStore(path string) *FlagStore {
	return &FlagStore{path: path}
}

// Path returns the backing file path.
func (f *FlagStore) Path() string {
	return f.path
}

// Set creates the marker file. Setting an already-set flag is a no-op.
func (f *FlagStore) Set() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create flag file: %w", err)
	}
	return file.Close()
}

// Unset removes the marker file. Unsetting an absent flag is a no-op.
func (f *FlagStore) Unset() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove flag file: %w", err)
	}
	return nil
}

// Present reports whether the marker file currently exists.
func (f *FlagStore) Present() bool {
	_, err := os.Stat(f.path)
	return err == nil
}
