package assignment

// AssignLeadRequest binds one staff member to a lead. Tier is accepted
// for symmetry with registrations but only primary is valid here.
type AssignLeadRequest struct {
	StaffID int64  `json:"staff_id" validate:"required"`
	Tier    string `json:"tier" validate:"omitempty,oneof=primary secondary"`
}

// AssignRegistrationRequest sets whichever tier is supplied.
type AssignRegistrationRequest struct {
	PrimaryID   *int64 `json:"primary_id"`
	SecondaryID *int64 `json:"secondary_id"`
}

// SwitchActiveRequest hot-swaps operational ownership.
type SwitchActiveRequest struct {
	StaffID int64 `json:"staff_id" validate:"required"`
}
