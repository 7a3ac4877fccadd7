// Package repository defines the tray persistence capability consumed by the
// service layer. Implementations live in the mongodb and memory subpackages
// and are selected at process start by configuration.
package repository

import (
	"context"
	"time"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Filter narrows tray queries. Nil fields are ignored.
type Filter struct {
	Slot             *models.Slot
	Removed          *bool
	NotificationSent *bool
	AddedBefore      *time.Time
}

// Sort orders query results by the tray added date.
type Sort int

const (
	SortNone Sort = iota
	SortAddedAsc
	SortAddedDesc
)

// Update carries the persistable field changes for one tray. Nil fields are
// left untouched.
type Update struct {
	Removed          *bool
	RemovedDate      *time.Time
	NotificationSent *bool
	Notes            *string
}

// TrayStore is the persistence contract for tray records. Insert must reject
// a second active tray on an occupied slot with *models.SlotConflictError;
// lookups and updates on unknown ids return models.ErrTrayNotFound.
type TrayStore interface {
	Insert(ctx context.Context, tray models.Tray) (models.Tray, error)
	FindOne(ctx context.Context, filter Filter) (models.Tray, error)
	FindMany(ctx context.Context, filter Filter, sort Sort) ([]models.Tray, error)
	FindByID(ctx context.Context, id string) (models.Tray, error)
	UpdateByID(ctx context.Context, id string, update Update) (models.Tray, error)
	DeleteByID(ctx context.Context, id string) error
}

// Bool is a convenience for building filters and updates.
func Bool(v bool) *bool { return &v }

// String is a convenience for building updates.
func String(v string) *string { return &v }

// Time is a convenience for building filters and updates.
func Time(v time.Time) *time.Time { return &v }
