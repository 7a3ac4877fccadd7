// Package memory provides a process-local TrayStore. It backs local
// development without a MongoDB instance and doubles as the store used by
// service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

// Repository is a mutex-guarded in-memory TrayStore implementation.
type Repository struct {
	mu    sync.Mutex
	trays map[string]models.Tray
}

// NewRepository creates an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{trays: make(map[string]models.Tray)}
}

// Insert stores a new tray. The slot-uniqueness check runs under the same
// lock as the write, so two concurrent creates on one slot cannot both
// succeed.
func (r *Repository) Insert(_ context.Context, tray models.Tray) (models.Tray, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.trays {
		if !existing.Removed && existing.Slot() == tray.Slot() {
			return models.Tray{}, &models.SlotConflictError{Slot: tray.Slot()}
		}
	}

	r.trays[tray.ID] = tray
	return tray, nil
}

// FindOne returns the first tray matching the filter.
func (r *Repository) FindOne(_ context.Context, filter repository.Filter) (models.Tray, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tray := range r.trays {
		if matches(tray, filter) {
			return tray, nil
		}
	}
	return models.Tray{}, models.ErrTrayNotFound
}

// FindMany returns all trays matching the filter in the requested order.
func (r *Repository) FindMany(_ context.Context, filter repository.Filter, order repository.Sort) ([]models.Tray, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Tray, 0, len(r.trays))
	for _, tray := range r.trays {
		if matches(tray, filter) {
			result = append(result, tray)
		}
	}

	switch order {
	case repository.SortAddedAsc:
		sort.Slice(result, func(i, j int) bool { return result[i].AddedDate.Before(result[j].AddedDate) })
	case repository.SortAddedDesc:
		sort.Slice(result, func(i, j int) bool { return result[i].AddedDate.After(result[j].AddedDate) })
	}

	return result, nil
}

// FindByID returns the tray with the given id.
func (r *Repository) FindByID(_ context.Context, id string) (models.Tray, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tray, ok := r.trays[id]
	if !ok {
		return models.Tray{}, models.ErrTrayNotFound
	}
	return tray, nil
}

// UpdateByID applies the non-nil update fields and returns the new record.
func (r *Repository) UpdateByID(_ context.Context, id string, update repository.Update) (models.Tray, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tray, ok := r.trays[id]
	if !ok {
		return models.Tray{}, models.ErrTrayNotFound
	}

	if update.Removed != nil {
		tray.Removed = *update.Removed
	}
	if update.RemovedDate != nil {
		removedDate := *update.RemovedDate
		tray.RemovedDate = &removedDate
	}
	if update.NotificationSent != nil {
		tray.NotificationSent = *update.NotificationSent
	}
	if update.Notes != nil {
		tray.Notes = *update.Notes
	}
	tray.UpdatedAt = time.Now()

	r.trays[id] = tray
	return tray, nil
}

// DeleteByID removes the tray with the given id.
func (r *Repository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trays[id]; !ok {
		return models.ErrTrayNotFound
	}
	delete(r.trays, id)
	return nil
}

func matches(tray models.Tray, filter repository.Filter) bool {
	if filter.Slot != nil && tray.Slot() != *filter.Slot {
		return false
	}
	if filter.Removed != nil && tray.Removed != *filter.Removed {
		return false
	}
	if filter.NotificationSent != nil && tray.NotificationSent != *filter.NotificationSent {
		return false
	}
	if filter.AddedBefore != nil && tray.AddedDate.After(*filter.AddedBefore) {
		return false
	}
	return true
}
