package dto

import "github.com/lironamy/wedding-us-sub001/internal/models"

// RunSeatingRequest triggers an auto-seating computation for an event.
type RunSeatingRequest struct {
	EventID  string `json:"eventId" validate:"required"`
	Channel  string `json:"channel" validate:"required,oneof=real simulation"`
	Strategy string `json:"strategy" validate:"required,oneof=all group_only"`
	GroupID  string `json:"groupId" validate:"required_if=Strategy group_only"`
}

// SeatingRunResult summarises one engine invocation. Success is false when
// any guest was left short of seats or a fatal error aborted the run;
// partial assignments are persisted either way.
type SeatingRunResult struct {
	Success            bool                     `json:"success"`
	AssignmentsCreated int                      `json:"assignmentsCreated"`
	TablesCreated      int                      `json:"tablesCreated"`
	Conflicts          []models.SeatingConflict `json:"conflicts"`
	Error              string                   `json:"error,omitempty"`
}

// SeatedGuest is one guest block at a table in the plan view.
type SeatedGuest struct {
	GuestID   string `json:"guestId"`
	GuestName string `json:"guestName"`
	Seats     int    `json:"seats"`
	Locked    bool   `json:"locked"`
}

// PlanTable is one table with its occupants in the plan view.
type PlanTable struct {
	TableID   string        `json:"tableId"`
	Name      string        `json:"name"`
	Number    int           `json:"number"`
	Capacity  int           `json:"capacity"`
	Occupied  int           `json:"occupied"`
	Type      string        `json:"type"`
	Mode      string        `json:"mode"`
	Locked    bool          `json:"locked"`
	Zone      string        `json:"zone"`
	GroupName string        `json:"groupName,omitempty"`
	Guests    []SeatedGuest `json:"guests"`
}

// SeatingPlan is the denormalized table-by-table view of one channel.
type SeatingPlan struct {
	EventID string      `json:"eventId"`
	Channel string      `json:"channel"`
	Tables  []PlanTable `json:"tables"`
}
