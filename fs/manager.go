package fs

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// WriteFile writes content to path, creating parent directories as needed.
// When backup is true and a file already exists at path, the existing content
// is first copied to path+".backup"; a failed backup aborts the write. If the
// backup succeeds but the write fails, the backup is left in place.
func (fs *FileSystem) WriteFile(path string, content string, backup bool) error {
	if backup && fs.Exists(path) {
		if err := fs.CopyFile(path, path+".backup"); err != nil {
			return fmt.Errorf("error backing up %s before overwrite: %w", path, err)
		}
	}

	dir := filepath.Dir(path)
	if err := fs.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	if err := afero.WriteFile(fs.Fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	return nil
}

// ReadFile returns the content of the file at path as a string
func (fs *FileSystem) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(fs.Fs, path)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	return string(data), nil
}

// CopyFile copies a single file from src to dst within the same file system
func (fs *FileSystem) CopyFile(src, dst string) error {
	in, err := fs.Fs.Open(src)
	if err != nil {
		return fmt.Errorf("error opening source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := fs.Fs.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("error copying %s to %s: %w", src, dst, err)
	}
	return nil
}

// EnsureDir creates a directory and any missing parents. Creating an
// already-existing directory is not an error.
func (fs *FileSystem) EnsureDir(path string) error {
	if err := fs.Fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", path, err)
	}
	return nil
}

// Exists checks if a path exists. I/O errors read as "does not exist".
func (fs *FileSystem) Exists(path string) bool {
	exists, err := afero.Exists(fs.Fs, path)
	if err != nil {
		return false
	}
	return exists
}

// IsDir checks if a path is a directory
func (fs *FileSystem) IsDir(path string) bool {
	info, err := fs.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RemoveAll removes a path and any children it contains
func (fs *FileSystem) RemoveAll(path string) error {
	if err := fs.Fs.RemoveAll(path); err != nil {
		return fmt.Errorf("error removing %s: %w", path, err)
	}
	return nil
}
