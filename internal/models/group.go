package models

import "time"

// GuestGroup is a named party of guests (e.g. "חברים של הכלה") referenced by
// guests and by the tables auto-created for them.
type GuestGroup struct {
	ID        string    `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"event_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupPriority pins a group's processing rank. Priority > 0 means ranked
// (lower first); 0 or a missing row means unranked.
type GroupPriority struct {
	ID        string `db:"id" json:"id"`
	EventID   string `db:"event_id" json:"event_id"`
	GroupName string `db:"group_name" json:"group_name"`
	Priority  int    `db:"priority" json:"priority"`
}
