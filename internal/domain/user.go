package domain

import "time"

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleCounselor  UserRole = "counselor"
	RoleOrgAdmin   UserRole = "org_admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// IsStaff reports whether the role belongs to consultancy staff
// (as opposed to a student account).
func (r UserRole) IsStaff() bool {
	return r == RoleCounselor || r == RoleOrgAdmin || r == RoleSuperAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	OrgID        int64     `json:"org_id,omitempty"` // 0 only for super_admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
