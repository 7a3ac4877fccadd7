package models

import "time"

// Door identifies which incubator door a tray sits behind.
type Door string

// Position identifies the slot side within a door row.
type Position string

// EggType determines the incubation period applied to a tray.
type EggType string

const (
	DoorLeft  Door = "left"
	DoorRight Door = "right"

	PositionLeft  Position = "left"
	PositionRight Position = "right"

	EggTypeChicken EggType = "chicken"
	EggTypeDuck    EggType = "duck"
)

// Valid reports whether the door value is one of the two supported doors.
func (d Door) Valid() bool {
	return d == DoorLeft || d == DoorRight
}

// Valid reports whether the position value is a supported slot side.
func (p Position) Valid() bool {
	return p == PositionLeft || p == PositionRight
}

// Valid reports whether the egg type is supported.
func (e EggType) Valid() bool {
	return e == EggTypeChicken || e == EggTypeDuck
}

// Tray represents one egg tray placed in the incubator.
type Tray struct {
	ID               string     `bson:"_id" json:"_id"`
	Door             Door       `bson:"door" json:"door"`
	Row              int        `bson:"row" json:"row"`
	Position         Position   `bson:"position" json:"position"`
	EggType          EggType    `bson:"egg_type" json:"eggType"`
	AddedDate        time.Time  `bson:"added_date" json:"addedDate"`
	Removed          bool       `bson:"removed" json:"removed"`
	RemovedDate      *time.Time `bson:"removed_date,omitempty" json:"removedDate,omitempty"`
	NotificationSent bool       `bson:"notification_sent" json:"notificationSent"`
	Notes            string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updatedAt"`
}

// Slot returns the physical coordinate occupied by the tray.
func (t Tray) Slot() Slot {
	return Slot{Door: t.Door, Row: t.Row, Position: t.Position}
}

// Slot is the (door, row, position) coordinate of a tray location. At most
// one non-removed tray may occupy a slot at any time.
type Slot struct {
	Door     Door     `json:"door"`
	Row      int      `json:"row"`
	Position Position `json:"position"`
}
