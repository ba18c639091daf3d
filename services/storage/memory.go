package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"homestay/models"

	"github.com/google/uuid"
)

// ErrImageNotFound is returned by MemoryImageStore.Delete for unknown ids.
var ErrImageNotFound = errors.New("image not found")

// MemoryImageStore keeps image ids in memory.
type MemoryImageStore struct {
	mu        sync.Mutex
	images    map[string]models.Image
	deleted   []string
	UploadErr error
	DeleteErr error
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{images: make(map[string]models.Image)}
}

func (s *MemoryImageStore) Upload(_ context.Context, img models.Image, folder string) (*models.StoredImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	id := path.Join(folder, uuid.NewString())
	s.images[id] = img
	return &models.StoredImage{URL: fmt.Sprintf("https://images.test/%s", id), PublicID: id}, nil
}

func (s *MemoryImageStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if _, ok := s.images[publicID]; !ok {
		return ErrImageNotFound
	}
	delete(s.images, publicID)
	s.deleted = append(s.deleted, publicID)
	return nil
}

// Has reports whether publicID is currently stored.
func (s *MemoryImageStore) Has(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.images[publicID]
	return ok
}

// Len is the number of stored images.
func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// Deleted lists ids removed so far, in order.
func (s *MemoryImageStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
