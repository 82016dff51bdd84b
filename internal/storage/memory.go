package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject

	// FailPuts and FailRemoves make the corresponding operation fail,
	// so callers can exercise their failure paths.
	FailPuts    bool
	FailRemoves bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func memoryKey(bucket, object string) string {
	return bucket + "/" + object
}

// PutObject stores the object bytes in memory.
func (s *MemoryStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	if s.FailPuts {
		return fmt.Errorf("memory store: put rejected")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[memoryKey(bucket, object)] = memoryObject{
		data:        data,
		contentType: opts.ContentType,
	}
	return nil
}

// GetObject returns a reader over the stored bytes.
func (s *MemoryStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error) {
	s.mu.RLock()
	obj, ok := s.objects[memoryKey(bucket, object)]
	s.mu.RUnlock()
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	info := ObjectInfo{
		ObjectName:  object,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

// StatObject returns metadata for a stored object.
func (s *MemoryStore) StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error) {
	s.mu.RLock()
	obj, ok := s.objects[memoryKey(bucket, object)]
	s.mu.RUnlock()
	if !ok {
		return ObjectInfo{}, ErrObjectNotFound
	}
	return ObjectInfo{
		ObjectName:  object,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}, nil
}

// RemoveObject deletes a stored object. Removing a missing object
// succeeds, matching object-store semantics.
func (s *MemoryStore) RemoveObject(ctx context.Context, bucket, object string) error {
	if s.FailRemoves {
		return fmt.Errorf("memory store: remove rejected")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, memoryKey(bucket, object))
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
