package models

import "time"

// Event is a single wedding (or similar) occasion all seating data hangs off.
type Event struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Venue     string    `db:"venue" json:"venue,omitempty"`
	HeldAt    time.Time `db:"held_at" json:"held_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
