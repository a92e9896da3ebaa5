package models

import "time"

// RSVPStatus tracks a guest unit's reply state.
type RSVPStatus string

const (
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPPending   RSVPStatus = "pending"
	RSVPDeclined  RSVPStatus = "declined"
)

// RelationType classifies a guest unit for the lonely-single heuristic.
type RelationType string

const (
	RelationSingle RelationType = "single"
	RelationCouple RelationType = "couple"
	RelationFamily RelationType = "family"
	RelationGroup  RelationType = "group"
)

// ZonePreference is a coarse spatial bias for placement.
type ZonePreference string

const (
	ZoneAny   ZonePreference = "any"
	ZoneStage ZonePreference = "stage"
	ZoneDance ZonePreference = "dance"
	ZoneQuiet ZonePreference = "quiet"
)

// Guest represents one invited unit (an invitation, not a single person).
// AdultsAttending and ChildrenAttending together determine the seat
// requirement. GroupID takes precedence over the free-text FamilyLabel when
// both are present.
type Guest struct {
	ID                string         `db:"id" json:"id"`
	EventID           string         `db:"event_id" json:"event_id"`
	FullName          string         `db:"full_name" json:"full_name"`
	RSVP              RSVPStatus     `db:"rsvp" json:"rsvp"`
	AdultsAttending   int            `db:"adults_attending" json:"adults_attending"`
	ChildrenAttending int            `db:"children_attending" json:"children_attending"`
	GroupID           *string        `db:"group_id" json:"group_id,omitempty"`
	FamilyLabel       string         `db:"family_label" json:"family_label,omitempty"`
	Relation          RelationType   `db:"relation" json:"relation,omitempty"`
	LockedSeat        bool           `db:"locked_seat" json:"locked_seat"`
	LockedTableID     *string        `db:"locked_table_id" json:"locked_table_id,omitempty"`
	Zone              ZonePreference `db:"zone" json:"zone,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// GuestFilter captures filtering criteria for listing guests.
type GuestFilter struct {
	EventID  string
	RSVP     *RSVPStatus
	GroupID  *string
	Page     int
	PageSize int
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
