package models

import (
	"time"

	"github.com/lib/pq"
)

// TableType restricts who may sit at a table.
type TableType string

const (
	TableAdults TableType = "adults"
	TableKids   TableType = "kids"
	TableMixed  TableType = "mixed"
)

// TableMode records how a table came to exist. Auto tables are owned by the
// seating engine and may be renumbered or deleted by it; manual tables are
// created by the planner UI and only read here.
type TableMode string

const (
	TableModeManual TableMode = "manual"
	TableModeAuto   TableMode = "auto"
)

// TableZone tags a table's spatial area. ZoneGeneral matches every guest
// zone preference.
type TableZone string

const (
	TableZoneGeneral TableZone = "general"
	TableZoneStage   TableZone = "stage"
	TableZoneDance   TableZone = "dance"
	TableZoneQuiet   TableZone = "quiet"
)

// SeatingTable is one physical table at the event. Number is unique per event
// and doubles as the implicit adjacency order when no explicit adjacency edge
// exists. ClusterIndex is the table's ordinal among its group's auto tables,
// used for naming and fill order.
type SeatingTable struct {
	ID           string         `db:"id" json:"id"`
	EventID      string         `db:"event_id" json:"event_id"`
	Name         string         `db:"name" json:"name"`
	Number       int            `db:"number" json:"number"`
	Capacity     int            `db:"capacity" json:"capacity"`
	Type         TableType      `db:"type" json:"type"`
	Mode         TableMode      `db:"mode" json:"mode"`
	GroupID      *string        `db:"group_id" json:"group_id,omitempty"`
	FamilyLabel  string         `db:"family_label" json:"family_label,omitempty"`
	ClusterIndex int            `db:"cluster_index" json:"cluster_index"`
	Locked       bool           `db:"locked" json:"locked"`
	Zone         TableZone      `db:"zone" json:"zone"`
	GuestIDs     pq.StringArray `db:"guest_ids" json:"guest_ids"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// TableNumberChange is one (table, final number) pair of a stable renumbering.
type TableNumberChange struct {
	TableID string
	Number  int
}
