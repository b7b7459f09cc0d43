// Package file provides file system operations adapter implementation.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"golang-quizlink/internal/port"
)

// ManagerAdapter is an adapter that implements the FileManager port using the standard os package.
// Paths are resolved under root, which is "/" on a device and a scratch directory in tests.
type ManagerAdapter struct {
	root string
}

// Ensure ManagerAdapter implements the FileManager port
var _ port.FileManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new file manager adapter rooted at root.
// An empty root means the real file system root.
func NewManagerAdapter(root string) *ManagerAdapter {
	if root == "" {
		root = "/"
	}
	return &ManagerAdapter{root: root}
}

func (f *ManagerAdapter) resolve(filename string) string {
	return filepath.Join(f.root, filename)
}

// ReadFile reads the contents of a file.
func (f *ManagerAdapter) ReadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(f.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return data, nil
}

// WriteFile writes data to a file with specified permissions.
// The file is written in place; sysfs attributes do not support rename.
func (f *ManagerAdapter) WriteFile(filename string, data []byte, perm int) error {
	if err := os.WriteFile(f.resolve(filename), data, os.FileMode(perm)); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (f *ManagerAdapter) FileExists(filename string) bool {
	_, err := os.Stat(f.resolve(filename))
	return err == nil
}
