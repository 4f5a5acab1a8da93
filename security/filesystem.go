package security

import (
	"io/fs"
	"os"
)

// FileSystem is the read-only view the resolver needs. fstest.MapFS and
// os.DirFS based wrappers satisfy it.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (fs.File, error)
}

type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}
