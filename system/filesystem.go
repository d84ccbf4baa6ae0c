package system

import (
	"io/fs"
	"os"
	"path/filepath"
)

// VirtualFS is the read side used to load sources and rule files.
type VirtualFS interface {
	fs.FS
}

// WritableVirtualFS can also persist files, such as metrics textfiles and reports.
type WritableVirtualFS interface {
	VirtualFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// FileSystem is a VirtualFS over the host file system. Unlike os.DirFS it accepts absolute and
// relative OS paths, as given on the command line.
type FileSystem struct{}

var (
	_ VirtualFS         = (*FileSystem)(nil)
	_ WritableVirtualFS = (*FileSystem)(nil)
	_ fs.ReadFileFS     = (*FileSystem)(nil)
	_ fs.GlobFS         = (*FileSystem)(nil)
)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Glob expands pattern with filepath.Match semantics.
func (fs *FileSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// WriteFile writes data to name, creating parent directories as needed.
func (fs *FileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(name, data, perm)
}

func (fs *FileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}
