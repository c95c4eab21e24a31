package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FSStore is a filesystem-based ObjectStore. Objects are sharded by the
// first two characters of their id:
//
//	<base>/
//	  objects/
//	    ab/
//	      cd1234...           (image bytes)
//	      cd1234....meta.json (Metadata)
type FSStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFSStore creates a filesystem store rooted at basePath.
func NewFSStore(basePath string) (*FSStore, error) {
	dir := filepath.Join(basePath, "objects")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &FSStore{basePath: basePath}, nil
}

// Put stores an object and returns its id.
func (s *FSStore) Put(_ context.Context, obj *Object) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := obj.ID
	if id == "" {
		id = HashBytes(obj.Data)
	}
	if !ValidID(id) {
		return "", fmt.Errorf("invalid object id %q", id)
	}

	objectPath := s.objectPath(id)
	if _, err := os.Stat(objectPath); err == nil {
		return id, nil
	}

	if err := os.MkdirAll(filepath.Dir(objectPath), 0o750); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(objectPath, obj.Data, 0o600); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	meta := Metadata{
		ContentType: obj.ContentType,
		Filename:    obj.Metadata.Filename,
		CreatedAt:   time.Now().UTC(),
		Custom:      maps.Clone(obj.Metadata.Custom),
	}
	if err := s.writeMetadata(id, meta); err != nil {
		return id, fmt.Errorf("write metadata: %w", err)
	}
	return id, nil
}

// Get retrieves an object by id.
func (s *FSStore) Get(_ context.Context, id string) (*Object, error) {
	if !ValidID(id) {
		return nil, ErrNotFound{ID: id}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// #nosec G304 - path is built from a validated hex id
	data, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{ID: id}
		}
		return nil, fmt.Errorf("read object: %w", err)
	}

	meta, err := s.readMetadata(id)
	if err != nil {
		meta = Metadata{ContentType: sniff(data)}
	}
	return &Object{
		ID:          id,
		ContentType: meta.ContentType,
		Size:        int64(len(data)),
		Data:        data,
		Metadata:    meta,
	}, nil
}

// Exists checks if an object with the given id exists.
func (s *FSStore) Exists(_ context.Context, id string) (bool, error) {
	if !ValidID(id) {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(s.objectPath(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object: %w", err)
	}
	return true, nil
}

// Delete removes an object by id.
func (s *FSStore) Delete(_ context.Context, id string) error {
	if !ValidID(id) {
		return ErrNotFound{ID: id}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	objectPath := s.objectPath(id)
	if err := os.Remove(objectPath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound{ID: id}
		}
		return fmt.Errorf("delete object: %w", err)
	}
	_ = os.Remove(s.metadataPath(id))
	_ = os.Remove(filepath.Dir(objectPath)) // only succeeds when empty
	return nil
}

// List returns the ids of objects with the given content type.
func (s *FSStore) List(_ context.Context, contentType string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	objectsDir := filepath.Join(s.basePath, "objects")
	err := filepath.WalkDir(objectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta.json") {
			return nil
		}
		rel, err := filepath.Rel(objectsDir, path)
		if err != nil {
			return nil
		}
		id := strings.ReplaceAll(rel, string(filepath.Separator), "")
		if contentType != "" {
			meta, err := s.readMetadata(id)
			if err != nil || meta.ContentType != contentType {
				return nil
			}
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk objects: %w", err)
	}
	return ids, nil
}

// Close releases resources.
func (s *FSStore) Close() error {
	return nil
}

func (s *FSStore) objectPath(id string) string {
	return filepath.Join(s.basePath, "objects", id[:2], id[2:])
}

func (s *FSStore) metadataPath(id string) string {
	return s.objectPath(id) + ".meta.json"
}

func (s *FSStore) readMetadata(id string) (Metadata, error) {
	// #nosec G304 - path is built from a validated hex id
	data, err := os.ReadFile(s.metadataPath(id))
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return meta, nil
}

func (s *FSStore) writeMetadata(id string, meta Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return os.WriteFile(s.metadataPath(id), data, 0o600)
}

// HashBytes returns the object id for data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ValidID reports whether id has the shape of an object id.
func ValidID(id string) bool {
	if len(id) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil && strings.ToLower(id) == id
}
