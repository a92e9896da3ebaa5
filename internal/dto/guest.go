package dto

// CreateGuestRequest adds one invited unit to an event.
type CreateGuestRequest struct {
	FullName          string  `json:"fullName" validate:"required,min=1,max=120"`
	RSVP              string  `json:"rsvp" validate:"omitempty,oneof=confirmed pending declined"`
	AdultsAttending   int     `json:"adultsAttending" validate:"min=0,max=30"`
	ChildrenAttending int     `json:"childrenAttending" validate:"min=0,max=30"`
	GroupID           *string `json:"groupId"`
	FamilyLabel       string  `json:"familyLabel" validate:"omitempty,max=120"`
	Relation          string  `json:"relation" validate:"omitempty,oneof=single couple family group"`
	Zone              string  `json:"zone" validate:"omitempty,oneof=any stage dance quiet"`
}

// UpdateGuestRequest partially updates a guest; nil fields are untouched.
type UpdateGuestRequest struct {
	FullName          *string `json:"fullName" validate:"omitempty,min=1,max=120"`
	RSVP              *string `json:"rsvp" validate:"omitempty,oneof=confirmed pending declined"`
	AdultsAttending   *int    `json:"adultsAttending" validate:"omitempty,min=0,max=30"`
	ChildrenAttending *int    `json:"childrenAttending" validate:"omitempty,min=0,max=30"`
	GroupID           *string `json:"groupId"`
	FamilyLabel       *string `json:"familyLabel" validate:"omitempty,max=120"`
	Relation          *string `json:"relation" validate:"omitempty,oneof=single couple family group"`
	Zone              *string `json:"zone" validate:"omitempty,oneof=any stage dance quiet"`
}

// LockGuestRequest pins a guest to a table, excluding them from automatic
// repositioning.
type LockGuestRequest struct {
	TableID string `json:"tableId" validate:"required"`
}
