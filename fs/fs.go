// Package fs defines the filesystem abstraction used by sitedeploy.
// Snapshot extraction, build-mode detection, settings loading and the
// local side of bucket synchronization all go through Filesystem so
// they can run against an in-memory implementation in tests.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	Stat() (fs.FileInfo, error)
	Write(p []byte) (n int, err error)
}

// Filesystem is the set of filesystem operations sitedeploy relies on.
type Filesystem interface {
	// Exists reports whether path exists. Only unexpected stat errors are returned.
	Exists(path string) (bool, error)
	MkdirAll(path string, perm os.FileMode) error
	Open(name string) (File, error)
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	ReadFile(path string) ([]byte, error)
	// RemoveAll removes path and any children. A missing path is not an error.
	RemoveAll(path string) error
	Stat(name string) (os.FileInfo, error)
	Symlink(target, link string) error
	// Walk visits root and everything below it in lexical order.
	Walk(root string, walkFn filepath.WalkFunc) error
	WriteFile(filename string, data []byte, perm os.FileMode) error
}
