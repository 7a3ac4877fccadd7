package models

import (
	"errors"
	"fmt"
)

// ErrTrayNotFound indicates the requested tray id does not exist in the store.
var ErrTrayNotFound = errors.New("tray not found")

// ValidationError reports a rejected field value on tray creation or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SlotConflictError reports an attempt to add a tray to a slot already
// occupied by an active tray.
type SlotConflictError struct {
	Slot Slot
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("there is already an active tray at %s door, row %d, %s position",
		e.Slot.Door, e.Slot.Row, e.Slot.Position)
}

// DeleteForbiddenError reports a delete rejected by the retention policy.
type DeleteForbiddenError struct {
	ID string
}

func (e *DeleteForbiddenError) Error() string {
	return fmt.Sprintf("tray %s cannot be deleted while still incubating", e.ID)
}
