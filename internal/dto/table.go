package dto

// CreateTableRequest adds a manual table to an event's floor plan.
type CreateTableRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=80"`
	Capacity    int     `json:"capacity" validate:"required,min=1,max=40"`
	Type        string  `json:"type" validate:"omitempty,oneof=adults kids mixed"`
	GroupID     *string `json:"groupId"`
	FamilyLabel string  `json:"familyLabel" validate:"omitempty,max=120"`
	Zone        string  `json:"zone" validate:"omitempty,oneof=general stage dance quiet"`
}

// UpdateTableRequest partially updates a table; nil fields are untouched.
type UpdateTableRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=80"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1,max=40"`
	Type     *string `json:"type" validate:"omitempty,oneof=adults kids mixed"`
	Zone     *string `json:"zone" validate:"omitempty,oneof=general stage dance quiet"`
	Locked   *bool   `json:"locked"`
}

// CreatePreferenceRequest records a pairwise seating rule.
type CreatePreferenceRequest struct {
	GuestAID string `json:"guestAId" validate:"required"`
	GuestBID string `json:"guestBId" validate:"required,nefield=GuestAID"`
	Type     string `json:"type" validate:"required,oneof=together apart"`
	Scope    string `json:"scope" validate:"omitempty,oneof=same_table same_and_adjacent"`
	Strength string `json:"strength" validate:"omitempty,oneof=prefer must"`
}

// PutGroupPrioritiesRequest replaces the event's group priority ranking.
type PutGroupPrioritiesRequest struct {
	Priorities []GroupPriorityEntry `json:"priorities" validate:"required,dive"`
}

// GroupPriorityEntry assigns one group its rank.
type GroupPriorityEntry struct {
	GroupName string `json:"groupName" validate:"required"`
	Priority  int    `json:"priority" validate:"min=0"`
}
