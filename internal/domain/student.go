package domain

import "time"

// Student is created exactly once per successful conversion (or adopted
// if a matching non-student account already exists).
type Student struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	OrgID  int64 `json:"org_id"`

	// Back-references to the conversion that produced this account.
	LeadID              *int64 `json:"lead_id,omitempty"`
	ConversionRequestID *int64 `json:"conversion_request_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"-"`
}
