package imagestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a reference does not resolve to stored bytes
var ErrNotFound = errors.New("image not found")

// Store saves profile photos on the local filesystem and hands back opaque
// references. Profiles persist only the references; the bytes live here.
type Store struct {
	dir string
}

// New creates an image store rooted at dir, creating it if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes image bytes and returns a fresh reference for them
func (s *Store) Save(data []byte) (string, error) {
	ref := uuid.New().String()
	path := filepath.Join(s.dir, ref)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return ref, nil
}

// Load returns the bytes stored under a reference
func (s *Store) Load(ref string) ([]byte, error) {
	path, err := s.refPath(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return data, nil
}

// Delete removes the bytes stored under a reference. Deleting a reference
// that is already gone is not an error.
func (s *Store) Delete(ref string) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// refPath resolves a reference to a path inside the store directory.
// References are uuid strings we minted ourselves; anything that looks
// like a path is rejected before it touches the filesystem.
func (s *Store) refPath(ref string) (string, error) {
	if ref == "" || strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, ref), nil
}
