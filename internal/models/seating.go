package models

import "time"

// AdjacencyPolicy controls how far an "apart" preference reaches.
type AdjacencyPolicy string

const (
	PolicySameTable       AdjacencyPolicy = "same_table"
	PolicySameAndAdjacent AdjacencyPolicy = "same_and_adjacent"
)

// SeatingSettings are the per-event knobs of the auto-seating engine. A row
// may be missing for an event; defaults from config are applied once at
// snapshot load, never inline.
type SeatingSettings struct {
	EventID               string          `db:"event_id" json:"event_id"`
	SeatsPerTable         int             `db:"seats_per_table" json:"seats_per_table"`
	AdjacencyPolicy       AdjacencyPolicy `db:"adjacency_policy" json:"adjacency_policy"`
	ChildrenTableEnabled  bool            `db:"children_table_enabled" json:"children_table_enabled"`
	ChildrenTableMinCount int             `db:"children_table_min_count" json:"children_table_min_count"`
	AvoidLonelySingles    bool            `db:"avoid_lonely_singles" json:"avoid_lonely_singles"`
	ZonePlacement         bool            `db:"zone_placement" json:"zone_placement"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
}

// ConflictType enumerates the constraint failures a run can report.
type ConflictType string

const (
	ConflictApartCannotSatisfy    ConflictType = "apart_cannot_satisfy"
	ConflictTogetherCannotSatisfy ConflictType = "together_cannot_satisfy"
	ConflictNoAvailableTable      ConflictType = "no_available_table"
)

// SeatingConflict is a structured, user-facing constraint failure. Constraint
// failures are never errors; they ride back on the run result.
type SeatingConflict struct {
	Type            ConflictType `json:"type"`
	GuestAID        string       `json:"guest_a_id"`
	GuestBID        string       `json:"guest_b_id,omitempty"`
	GuestAName      string       `json:"guest_a_name"`
	GuestBName      string       `json:"guest_b_name,omitempty"`
	TableID         string       `json:"table_id,omitempty"`
	Message         string       `json:"message"`
	SuggestedAction string       `json:"suggested_action"`
}
