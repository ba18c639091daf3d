package recordsRepo

import (
	"context"
	"sort"
	"sync"

	"homestay/database"
	"homestay/models"
)

// MemoryRecordRepo keeps content records in process.
type MemoryRecordRepo struct {
	mu      sync.Mutex
	records map[models.ContentKind]map[string]models.ContentRecord
	// SaveErr, when set, is returned by Save.
	SaveErr error
}

func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{records: make(map[models.ContentKind]map[string]models.ContentRecord)}
}

func (r *MemoryRecordRepo) Save(_ context.Context, record *models.ContentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	if r.records[record.Kind] == nil {
		r.records[record.Kind] = make(map[string]models.ContentRecord)
	}
	r.records[record.Kind][record.ID] = *record
	return nil
}

func (r *MemoryRecordRepo) GetByID(_ context.Context, kind models.ContentKind, id string) (*models.ContentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[kind][id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &rec, nil
}

func (r *MemoryRecordRepo) List(_ context.Context, kind models.ContentKind, publishedOnly bool) ([]models.ContentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ContentRecord{}
	for _, rec := range r.records[kind] {
		if publishedOnly && !rec.Published {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRecordRepo) Delete(_ context.Context, kind models.ContentKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[kind][id]; !ok {
		return database.ErrNotFound
	}
	delete(r.records[kind], id)
	return nil
}
