package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manager handles file storage for one board directory
type Manager struct {
	dir string
}

// NewManager creates a storage manager rooted at dir, creating the
// directory tree if needed. Creation is idempotent and safe under
// concurrent calls for the same path.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{dir: dir}, nil
}

// Dir returns the managed directory path
func (m *Manager) Dir() string {
	return m.dir
}

// Exists reports whether a file with the given name is already present
func (m *Manager) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(m.dir, filename))
	return err == nil
}

// SaveImage writes a complete image file. The data is written to a
// temporary file first and renamed into place so a failed download never
// leaves a truncated image behind.
func (m *Manager) SaveImage(r io.Reader, filename string) (int64, error) {
	target := filepath.Join(m.dir, filename)
	tempFile := target + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return n, fmt.Errorf("failed to save image data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return n, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return n, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return n, nil
}

// AppendSegment appends raw bytes to the given file, creating it on the
// first call. Video segments are appended in order onto one path so the
// final file is their ordered concatenation.
func (m *Manager) AppendSegment(r io.Reader, filename string) (int64, error) {
	out, err := os.OpenFile(filepath.Join(m.dir, filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open segment file: %w", err)
	}

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		return n, fmt.Errorf("failed to append segment data: %w", err)
	}
	if closeErr != nil {
		return n, fmt.Errorf("failed to close segment file: %w", closeErr)
	}

	return n, nil
}

// Remove deletes the given file if it exists
func (m *Manager) Remove(filename string) error {
	err := os.Remove(filepath.Join(m.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
