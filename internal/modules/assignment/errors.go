package assignment

import "errors"

var (
	ErrLeadNotFound          = errors.New("lead not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrStaffNotFound         = errors.New("staff member not found")
	ErrNotStaff              = errors.New("referenced user is not a staff member")
	ErrWrongOrg              = errors.New("staff member belongs to a different organization")
	ErrNoStaffGiven          = errors.New("at least one of primary or secondary staff is required")
	ErrSecondaryOnLead       = errors.New("lead assignment is single-tier, secondary staff not supported")
	ErrLeadConverted         = errors.New("lead already converted, assignment is frozen")
	ErrNotPrimaryOrSecondary = errors.New("selected staff must be primary or secondary")
	ErrForbidden             = errors.New("forbidden")
)
