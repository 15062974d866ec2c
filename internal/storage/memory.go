package storage

import (
	"context"
	"strings"
	"sync"
	"time"
)

const memoryURLPrefix = "memory://"

// MemoryStore keeps blobs in a map. Used in development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string]Blob
}

// Blob is a stored upload.
type Blob struct {
	Data        []byte
	ContentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]Blob)}
}

func (s *MemoryStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := NewObjectKey(time.Now().UTC(), extensionFor(contentType))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = Blob{Data: append([]byte(nil), data...), ContentType: contentType}

	return memoryURLPrefix + key, nil
}

func (s *MemoryStore) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, memoryURLPrefix)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, key)
	return nil
}

// Get returns the blob stored under url.
func (s *MemoryStore) Get(url string) (Blob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[strings.TrimPrefix(url, memoryURLPrefix)]
	return b, ok
}

// Len returns how many blobs are stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
