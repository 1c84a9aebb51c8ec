package storage

import (
	"context"
	"strings"
	"sync"

	"neuropharm-backend/internal/domain/gateway"
)

// MemoryStorage is a thread-safe in-process ObjectStorage for local development and tests
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func objectKey(bucket, path string) string {
	return bucket + "/" + path
}

func (s *MemoryStorage) Upload(ctx context.Context, bucket, path string, content []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(content))
	copy(data, content)

	s.mu.Lock()
	s.objects[objectKey(bucket, path)] = data
	s.types[objectKey(bucket, path)] = contentType
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.objects[objectKey(bucket, path)]
	s.mu.RUnlock()
	if !ok {
		return nil, gateway.ErrObjectNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ContentType returns the content type recorded for an object
func (s *MemoryStorage) ContentType(bucket, path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.types[objectKey(bucket, path)]
	return ct, ok
}

// Count returns the number of objects stored in bucket
func (s *MemoryStorage) Count(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	prefix := bucket + "/"
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}
