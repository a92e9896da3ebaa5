package models

import "time"

// PreferenceType declares whether two guests attract or repel.
type PreferenceType string

const (
	PreferenceTogether PreferenceType = "together"
	PreferenceApart    PreferenceType = "apart"
)

// PreferenceScope controls whether adjacent tables count.
type PreferenceScope string

const (
	ScopeSameTable       PreferenceScope = "same_table"
	ScopeSameAndAdjacent PreferenceScope = "same_and_adjacent"
)

// PreferenceStrength weights "together" scoring. "apart" is a hard constraint
// at any strength.
type PreferenceStrength string

const (
	StrengthPrefer PreferenceStrength = "prefer"
	StrengthMust   PreferenceStrength = "must"
)

// SeatingPreference is an unordered pairwise seating rule between two guests.
type SeatingPreference struct {
	ID        string             `db:"id" json:"id"`
	EventID   string             `db:"event_id" json:"event_id"`
	GuestAID  string             `db:"guest_a_id" json:"guest_a_id"`
	GuestBID  string             `db:"guest_b_id" json:"guest_b_id"`
	Type      PreferenceType     `db:"type" json:"type"`
	Scope     PreferenceScope    `db:"scope" json:"scope"`
	Strength  PreferenceStrength `db:"strength" json:"strength"`
	Enabled   bool               `db:"enabled" json:"enabled"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

// Other returns the counterpart guest id for the given guest.
func (p *SeatingPreference) Other(guestID string) string {
	if p.GuestAID == guestID {
		return p.GuestBID
	}
	return p.GuestAID
}

// TableAdjacency is an explicit adjacency edge between two tables. Pairs
// without an edge fall back to table numbers differing by exactly one.
type TableAdjacency struct {
	ID       string `db:"id" json:"id"`
	EventID  string `db:"event_id" json:"event_id"`
	TableAID string `db:"table_a_id" json:"table_a_id"`
	TableBID string `db:"table_b_id" json:"table_b_id"`
}
