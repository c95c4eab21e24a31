package storage

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"
)

// MemoryStore is an in-memory ObjectStore used by tests and the preview
// command when no storage directory is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*Object
	calls   MemoryCalls
}

// MemoryCalls counts method invocations.
type MemoryCalls struct {
	Put    int
	Get    int
	Exists int
	Delete int
	List   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]*Object)}
}

// Put stores a copy of obj.
func (m *MemoryStore) Put(_ context.Context, obj *Object) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Put++

	id := obj.ID
	if id == "" {
		id = HashBytes(obj.Data)
	}
	if _, ok := m.objects[id]; ok {
		return id, nil
	}
	stored := copyObject(obj)
	stored.ID = id
	stored.Size = int64(len(obj.Data))
	stored.Metadata.ContentType = obj.ContentType
	stored.Metadata.CreatedAt = time.Now().UTC()
	m.objects[id] = stored
	return id, nil
}

// Get returns a copy of the stored object.
func (m *MemoryStore) Get(_ context.Context, id string) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Get++

	obj, ok := m.objects[id]
	if !ok {
		return nil, ErrNotFound{ID: id}
	}
	return copyObject(obj), nil
}

// Exists checks if an object with the given id exists.
func (m *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Exists++

	_, ok := m.objects[id]
	return ok, nil
}

// Delete removes an object.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Delete++

	if _, ok := m.objects[id]; !ok {
		return ErrNotFound{ID: id}
	}
	delete(m.objects, id)
	return nil
}

// List returns ids matching contentType, or all ids when it is empty.
func (m *MemoryStore) List(_ context.Context, contentType string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.List++

	var ids []string
	for id, obj := range m.objects {
		if contentType == "" || obj.ContentType == contentType {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

// Calls returns the number of times each method was called.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *MemoryStore) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("MemoryStore{objects: %d, calls: %+v}", len(m.objects), m.calls)
}

func copyObject(obj *Object) *Object {
	out := *obj
	out.Data = append([]byte(nil), obj.Data...)
	out.Metadata.Custom = maps.Clone(obj.Metadata.Custom)
	return &out
}
