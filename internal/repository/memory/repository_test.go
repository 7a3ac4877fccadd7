package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

func sampleTray(id string, row int) models.Tray {
	return models.Tray{
		ID:        id,
		Door:      models.DoorLeft,
		Row:       row,
		Position:  models.PositionLeft,
		EggType:   models.EggTypeChicken,
		AddedDate: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestInsertRejectsOccupiedSlot(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, sampleTray("a", 1))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, sampleTray("b", 1))
	var conflictErr *models.SlotConflictError
	require.ErrorAs(t, err, &conflictErr)

	_, err = repo.Insert(ctx, sampleTray("c", 2))
	require.NoError(t, err)
}

func TestInsertAllowsSlotAfterRemoval(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, sampleTray("a", 1))
	require.NoError(t, err)

	_, err = repo.UpdateByID(ctx, "a", repository.Update{Removed: repository.Bool(true)})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, sampleTray("b", 1))
	require.NoError(t, err)
}

func TestConcurrentInsertsOnOneSlot(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tray := sampleTray("", 1)
			tray.ID = string(rune('a' + i))
			_, errs[i] = repo.Insert(ctx, tray)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one insert may win the slot")
}

func TestFindManyFiltersAndSorts(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	older := sampleTray("older", 1)
	older.AddedDate = older.AddedDate.Add(-72 * time.Hour)
	newer := sampleTray("newer", 2)
	removed := sampleTray("removed", 3)
	removed.Removed = true

	for _, tray := range []models.Tray{older, newer, removed} {
		_, err := repo.Insert(ctx, tray)
		require.NoError(t, err)
	}

	active, err := repo.FindMany(ctx, repository.Filter{Removed: repository.Bool(false)}, repository.SortAddedAsc)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "older", active[0].ID)
	assert.Equal(t, "newer", active[1].ID)

	all, err := repo.FindMany(ctx, repository.Filter{}, repository.SortAddedDesc)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "older", all[2].ID)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, sampleTray("a", 1))
	require.NoError(t, err)

	notes := "shifted to row 1"
	updated, err := repo.UpdateByID(ctx, "a", repository.Update{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	_, err = repo.UpdateByID(ctx, "missing", repository.Update{Notes: &notes})
	assert.ErrorIs(t, err, models.ErrTrayNotFound)

	require.NoError(t, repo.DeleteByID(ctx, "a"))
	assert.ErrorIs(t, repo.DeleteByID(ctx, "a"), models.ErrTrayNotFound)

	_, err = repo.FindByID(ctx, "a")
	assert.ErrorIs(t, err, models.ErrTrayNotFound)
}
