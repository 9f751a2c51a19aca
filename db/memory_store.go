package db

import (
	"context"
	"sync"
)

// MemoryBlobStore keeps the blob in process memory. Nothing survives a restart.
type MemoryBlobStore struct {
	mu   sync.Mutex
	data []byte
	// Err, when set, is returned by Load and Save
	Err error
}

// NewMemoryBlobStore returns a store preloaded with data (may be nil)
func NewMemoryBlobStore(data []byte) *MemoryBlobStore {
	return &MemoryBlobStore{data: append([]byte(nil), data...)}
}

func (s *MemoryBlobStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryBlobStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns the last saved blob
func (s *MemoryBlobStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}
