package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-process Store used by tests. PutHook and GetHook, when
// set, run before the operation and can force a failure for a given object.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	PutHook func(object string) error
	GetHook func(object string) error
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func memKey(bucket, object string) string {
	return bucket + "/" + object
}

// PutObject stores the reader's bytes and reports the stored size.
func (s *MemoryStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	if s.PutHook != nil {
		if err := s.PutHook(object); err != nil {
			return ObjectInfo{}, err
		}
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ObjectInfo{}, err
	}
	s.mu.Lock()
	s.objects[memKey(bucket, object)] = data
	s.mu.Unlock()
	return ObjectInfo{ObjectName: object, Size: int64(len(data))}, nil
}

// GetObject returns a reader over the stored bytes.
func (s *MemoryStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	if s.GetHook != nil {
		if err := s.GetHook(object); err != nil {
			return nil, ObjectInfo{}, err
		}
	}
	s.mu.Lock()
	data, ok := s.objects[memKey(bucket, object)]
	s.mu.Unlock()
	if !ok {
		return nil, ObjectInfo{}, fmt.Errorf("object %s not found", object)
	}
	return io.NopCloser(bytes.NewReader(data)), ObjectInfo{ObjectName: object, Size: int64(len(data))}, nil
}

// RemoveObject deletes an object.
func (s *MemoryStore) RemoveObject(ctx context.Context, bucket, object string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, memKey(bucket, object))
	s.mu.Unlock()
	return nil
}

// Len reports how many objects the store holds.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
