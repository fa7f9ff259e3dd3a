package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
)

// memorySubmissionRepository keeps submissions in process memory. It backs
// the test suite and DB-less local development; the filtering and
// pagination semantics mirror the Postgres implementation.
type memorySubmissionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.SubmissionRecord
}

// NewMemorySubmissionRepository builds an empty in-memory store.
func NewMemorySubmissionRepository() domain.SubmissionRepository {
	return &memorySubmissionRepository{records: make(map[uuid.UUID]*domain.SubmissionRecord)}
}

func (r *memorySubmissionRepository) Create(_ context.Context, record *domain.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *memorySubmissionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.SubmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *memorySubmissionRepository) List(_ context.Context, filter domain.ListFilter) ([]*domain.SubmissionRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.SubmissionRecord, 0)
	for _, record := range r.records {
		if filter.Flow != "" && record.Flow != filter.Flow {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !matchesSearch(record, filter.Search) {
			continue
		}
		clone := *record
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*domain.SubmissionRecord{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func matchesSearch(record *domain.SubmissionRecord, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{
		record.CompanyName, record.ContactPerson,
		record.FirstName, record.LastName,
		record.Email, record.Location,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (r *memorySubmissionRepository) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*domain.SubmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record.Status = status
	record.UpdatedAt = time.Now()
	clone := *record
	return &clone, nil
}

func (r *memorySubmissionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	return nil
}
