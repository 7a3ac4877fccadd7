// Package status computes incubation progress for trays. Everything here is
// pure: callers pass the reference instant explicitly so results are
// reproducible in tests and across the sweep/HTTP paths.
package status

import (
	"math"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Category classifies a tray's incubation state at a point in time.
type Category string

const (
	Incubating    Category = "incubating"
	ReadyToRemove Category = "ready_to_remove"
	Overdue       Category = "overdue"
	Removed       Category = "removed"
)

// DeletePolicy names the retention rule applied to tray deletion.
type DeletePolicy string

const (
	// DeletePolicyStrict permits deleting removed trays only.
	DeletePolicyStrict DeletePolicy = "strict"
	// DeletePolicyThreshold additionally permits deleting active trays that
	// have reached the warning threshold.
	DeletePolicyThreshold DeletePolicy = "threshold"
)

// Valid reports whether the policy is one of the named retention rules.
func (p DeletePolicy) Valid() bool {
	return p == DeletePolicyStrict || p == DeletePolicyThreshold
}

const hoursPerDay = 24

// IncubationPeriod returns the total incubation length in days for an egg
// type. Unknown values fall back to chicken.
func IncubationPeriod(eggType models.EggType) int {
	if eggType == models.EggTypeDuck {
		return 25
	}
	return 18
}

// WarningThreshold returns the day count at which a tray is ready to remove
// even though not yet overdue.
func WarningThreshold(eggType models.EggType) int {
	if eggType == models.EggTypeDuck {
		return 23
	}
	return 16
}

// DaysInIncubator counts elapsed days since the tray was added, rounded up.
// The difference is taken absolute so a not-yet-validated future addedDate
// cannot produce a negative count.
func DaysInIncubator(addedDate, now time.Time) int {
	hours := math.Abs(now.Sub(addedDate).Hours())
	return int(math.Ceil(hours / hoursPerDay))
}

// CompletionDate returns the date the incubation period ends.
func CompletionDate(addedDate time.Time, eggType models.EggType) time.Time {
	return addedDate.AddDate(0, 0, IncubationPeriod(eggType))
}

// DaysRemaining returns the days left until completion, rounded up. Once the
// completion date has passed the figure is meaningless on its own, so ok is
// false and callers should report the overdue amount from Compute instead.
func DaysRemaining(addedDate time.Time, eggType models.EggType, now time.Time) (int, bool) {
	completion := CompletionDate(addedDate, eggType)
	if !now.Before(completion) {
		return 0, false
	}
	hours := completion.Sub(now).Hours()
	return int(math.Ceil(hours / hoursPerDay)), true
}

// Report is the computed status of one tray at a reference instant.
type Report struct {
	Category        Category `json:"category"`
	DaysInIncubator int      `json:"daysInIncubator"`
	DaysRemaining   int      `json:"daysRemaining"`
	// DaysRemainingKnown is false once the tray is overdue or removed.
	DaysRemainingKnown bool `json:"daysRemainingKnown"`
	// DaysOverdue is meaningful only when Category is Overdue.
	DaysOverdue int `json:"daysOverdue"`
}

// Compute classifies a tray into exactly one category.
func Compute(tray models.Tray, now time.Time) Report {
	report := Report{DaysInIncubator: DaysInIncubator(tray.AddedDate, now)}

	if tray.Removed {
		report.Category = Removed
		return report
	}

	period := IncubationPeriod(tray.EggType)
	switch {
	case report.DaysInIncubator >= period:
		report.Category = Overdue
		report.DaysOverdue = report.DaysInIncubator - period
	case report.DaysInIncubator >= WarningThreshold(tray.EggType):
		report.Category = ReadyToRemove
	default:
		report.Category = Incubating
	}

	if remaining, ok := DaysRemaining(tray.AddedDate, tray.EggType, now); ok {
		report.DaysRemaining = remaining
		report.DaysRemainingKnown = true
	}

	return report
}

// CanDelete reports whether the retention policy permits deleting the tray.
func CanDelete(tray models.Tray, now time.Time, policy DeletePolicy) bool {
	if tray.Removed {
		return true
	}
	if policy == DeletePolicyThreshold {
		return DaysInIncubator(tray.AddedDate, now) >= WarningThreshold(tray.EggType)
	}
	return false
}
