package storage

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
)

// Memory is the in-process document store for tests and development
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.StorageClient = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
	}
}

func objectKey(bucket, path string) string {
	return bucket + "/" + path
}

func (s *Memory) Put(ctx context.Context, bucket, path, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[objectKey(bucket, path)] = stored
	return nil
}

func (s *Memory) Get(ctx context.Context, bucket, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[objectKey(bucket, path)]
	if !ok {
		return nil, goerr.New("object not found",
			goerr.V("bucket", bucket), goerr.V("path", path))
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
