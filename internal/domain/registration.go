package domain

import "time"

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationInProgress RegistrationStatus = "in_progress"
	RegistrationCompleted  RegistrationStatus = "completed"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

// ServiceRegistration binds a student to one offered service and carries
// its own staff assignment, separate from the originating lead's.
// Unique per (student, service) pair.
type ServiceRegistration struct {
	ID        int64              `json:"id"`
	StudentID int64              `json:"student_id"`
	ServiceID int64              `json:"service_id"`
	OrgID     int64              `json:"org_id"`
	Status    RegistrationStatus `json:"status"`

	// Staff assignment. Invariant: ActiveStaffID, when set, equals
	// PrimaryStaffID or SecondaryStaffID.
	PrimaryStaffID   *int64 `json:"primary_staff_id,omitempty"`
	SecondaryStaffID *int64 `json:"secondary_staff_id,omitempty"`
	ActiveStaffID    *int64 `json:"active_staff_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasActiveStaff reports whether an operational owner is currently bound.
// Older rows may carry a primary with no active; readers must go through
// the authz resolver for the fallback, not reimplement it.
func (r *ServiceRegistration) HasActiveStaff() bool {
	return r.ActiveStaffID != nil || r.PrimaryStaffID != nil
}
