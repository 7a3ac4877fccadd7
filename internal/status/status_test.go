package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

func daysAgo(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

func TestIncubationPeriod(t *testing.T) {
	assert.Equal(t, 18, IncubationPeriod(models.EggTypeChicken))
	assert.Equal(t, 25, IncubationPeriod(models.EggTypeDuck))
	assert.Equal(t, 18, IncubationPeriod(models.EggType("")), "unset falls back to chicken")
}

func TestWarningThreshold(t *testing.T) {
	assert.Equal(t, 16, WarningThreshold(models.EggTypeChicken))
	assert.Equal(t, 23, WarningThreshold(models.EggTypeDuck))
	assert.Equal(t, 16, WarningThreshold(models.EggType("quail")))
}

func TestDaysInIncubator(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 16, DaysInIncubator(daysAgo(now, 16), now))
	assert.Equal(t, 1, DaysInIncubator(now.Add(-30*time.Minute), now), "partial days round up")
	assert.Equal(t, 0, DaysInIncubator(now, now))
	assert.Equal(t, 3, DaysInIncubator(now.Add(3*24*time.Hour), now), "future date yields absolute count")
}

func TestCompletionDate(t *testing.T) {
	added := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, added.AddDate(0, 0, 18), CompletionDate(added, models.EggTypeChicken))
	assert.Equal(t, added.AddDate(0, 0, 25), CompletionDate(added, models.EggTypeDuck))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	remaining, ok := DaysRemaining(daysAgo(now, 10), models.EggTypeChicken, now)
	require.True(t, ok)
	assert.Equal(t, 8, remaining)

	_, ok = DaysRemaining(daysAgo(now, 18), models.EggTypeChicken, now)
	assert.False(t, ok, "not applicable at completion")

	_, ok = DaysRemaining(daysAgo(now, 21), models.EggTypeChicken, now)
	assert.False(t, ok, "not applicable once overdue")
}

func TestCompute(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		tray         models.Tray
		wantCategory Category
		wantDays     int
		wantOverdue  int
	}{
		{
			name:         "chicken at warning threshold is ready to remove",
			tray:         models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 16)},
			wantCategory: ReadyToRemove,
			wantDays:     16,
		},
		{
			name:         "chicken past period is overdue by one day",
			tray:         models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 19)},
			wantCategory: Overdue,
			wantDays:     19,
			wantOverdue:  1,
		},
		{
			name:         "duck at ten days is still incubating",
			tray:         models.Tray{EggType: models.EggTypeDuck, AddedDate: daysAgo(now, 10)},
			wantCategory: Incubating,
			wantDays:     10,
		},
		{
			name:         "chicken exactly at period is overdue by zero",
			tray:         models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 18)},
			wantCategory: Overdue,
			wantDays:     18,
		},
		{
			name:         "removed wins over any day count",
			tray:         models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 30), Removed: true},
			wantCategory: Removed,
			wantDays:     30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Compute(tt.tray, now)

			assert.Equal(t, tt.wantCategory, report.Category)
			assert.Equal(t, tt.wantDays, report.DaysInIncubator)
			assert.Equal(t, tt.wantOverdue, report.DaysOverdue)
		})
	}
}

func TestComputeDaysRemainingHiddenOnceOverdue(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	report := Compute(models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 10)}, now)
	require.True(t, report.DaysRemainingKnown)
	assert.Equal(t, 8, report.DaysRemaining)

	report = Compute(models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 20)}, now)
	assert.False(t, report.DaysRemainingKnown)
	assert.Equal(t, 0, report.DaysRemaining)
}

func TestCanDelete(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	removed := models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 5), Removed: true}
	young := models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 5)}
	atThreshold := models.Tray{EggType: models.EggTypeChicken, AddedDate: daysAgo(now, 16)}

	assert.True(t, CanDelete(removed, now, DeletePolicyStrict))
	assert.False(t, CanDelete(young, now, DeletePolicyStrict))
	assert.False(t, CanDelete(atThreshold, now, DeletePolicyStrict))

	assert.True(t, CanDelete(removed, now, DeletePolicyThreshold))
	assert.False(t, CanDelete(young, now, DeletePolicyThreshold))
	assert.True(t, CanDelete(atThreshold, now, DeletePolicyThreshold))
}
