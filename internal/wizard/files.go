package wizard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
)

// FileRef is an opaque handle to an uploaded credential. Content is never
// transmitted with the submission; only presence is.
type FileRef interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// isNilRef reports whether ref is nil or wraps a nil pointer.
func isNilRef(ref FileRef) bool {
	if ref == nil {
		return true
	}
	v := reflect.ValueOf(ref)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// LocalFile is a FileRef backed by a path on disk.
type LocalFile struct {
	path string
	size int64
}

// NewLocalFile stats path and returns a handle to it.
func NewLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &LocalFile{path: path, size: info.Size()}, nil
}

func (f *LocalFile) Name() string                 { return filepath.Base(f.path) }
func (f *LocalFile) Size() int64                  { return f.size }
func (f *LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// MemoryFile is a FileRef over an in-memory buffer.
type MemoryFile struct {
	name string
	data []byte
}

func NewMemoryFile(name string, data []byte) *MemoryFile {
	return &MemoryFile{name: name, data: data}
}

func (f *MemoryFile) Name() string { return f.name }
func (f *MemoryFile) Size() int64  { return int64(len(f.data)) }
func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
