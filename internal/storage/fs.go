package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/supportdir/internal/apperr"
)

// FS implements Provider by reading a file from the local file system.
type FS struct {
	root string // absolute path to the data directory
	name string // document path relative to root
}

// NewFS creates a provider for the document name under root. The root
// directory must already exist; the document itself may appear later.
func NewFS(root, name string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	f := &FS{root: abs, name: name}
	if _, err := f.safePath(name); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFSFromPath splits a document path into its directory and file name.
func NewFSFromPath(path string) (*FS, error) {
	return NewFS(filepath.Dir(path), filepath.Base(path))
}

// safePath resolves a relative path against the root and rejects any result
// that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: document name is empty")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	inside, err := filepath.Rel(f.root, abs)
	if err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: path escapes data root: %s", rel)
	}
	return abs, nil
}

// Path returns the absolute path of the document.
func (f *FS) Path() string {
	p, _ := f.safePath(f.name)
	return p
}

// Root returns the absolute data directory.
func (f *FS) Root() string {
	return f.root
}

// Location implements Provider.
func (f *FS) Location() string {
	return "file://" + f.Path()
}

// Fetch reads the whole document.
func (f *FS) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrFetch, err)
	}
	file, err := os.Open(f.Path())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperr.ErrFetch, f.name, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", apperr.ErrFetch, f.name, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", apperr.ErrFetch, f.name, maxDocumentBytes)
	}
	return data, nil
}
