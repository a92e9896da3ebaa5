package models

import "time"

// AssignmentChannel separates the confirmed-only plan from the what-if plan.
// The two channels are stored side by side for the same event.
type AssignmentChannel string

const (
	ChannelReal       AssignmentChannel = "real"
	ChannelSimulation AssignmentChannel = "simulation"
)

// SeatAssignment binds part of a guest's seat requirement to one table. A
// guest split across tables has one row per table. Assignment rows, not table
// guest lists, are the source of truth for occupied seats.
type SeatAssignment struct {
	ID        string            `db:"id" json:"id"`
	EventID   string            `db:"event_id" json:"event_id"`
	TableID   string            `db:"table_id" json:"table_id"`
	GuestID   string            `db:"guest_id" json:"guest_id"`
	Seats     int               `db:"seats" json:"seats"`
	Channel   AssignmentChannel `db:"channel" json:"channel"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}
