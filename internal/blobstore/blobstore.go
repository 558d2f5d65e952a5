// Package blobstore is the object storage boundary: upload bytes under a
// path, get back a URL, delete by URL. Image bytes for products live under
// productos/<uuid>.jpg and category images under categorias/<timestamp>.jpg.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidPath = errors.New("invalid blob path")
)

type Store interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

const memScheme = "mem://"

// Memory holds blobs in process memory, keyed by their synthetic URL.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Upload(_ context.Context, path string, data []byte) (string, error) {
	if strings.TrimSpace(path) == "" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}

	url := memScheme + path
	body := make([]byte, len(data))
	copy(body, data)

	m.mu.Lock()
	m.blobs[url] = body
	m.mu.Unlock()
	return url, nil
}

func (m *Memory) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[url]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, url)
	return nil
}

// Open returns the stored bytes for a URL. Test helper.
func (m *Memory) Open(url string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.blobs[url]
	return body, ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

var _ Store = (*Memory)(nil)

// FormatObjectName builds the conventional blob file name for a collection,
// e.g. productos/3f2a....jpg.
func FormatObjectName(prefix string, name string) string {
	return fmt.Sprintf("%s/%s.jpg", prefix, name)
}
