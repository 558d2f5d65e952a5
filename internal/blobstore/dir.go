package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// Dir stores blobs as files under a root directory and hands out file://
// URLs. It stands in for the remote object storage when the dev harness runs
// without network access.
type Dir struct {
	root string
}

func NewDir(root string) (*Dir, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrInvalidPath
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: abs}, nil
}

func (d *Dir) Upload(_ context.Context, path string, data []byte) (string, error) {
	if strings.TrimSpace(path) == "" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}

	full := filepath.Join(d.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return fileScheme + filepath.ToSlash(full), nil
}

func (d *Dir) Delete(_ context.Context, url string) error {
	full, ok := strings.CutPrefix(url, fileScheme)
	if !ok {
		return ErrInvalidPath
	}
	full = filepath.FromSlash(full)
	if !strings.HasPrefix(full, d.root) {
		return ErrInvalidPath
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

var _ Store = (*Dir)(nil)
