package domain

import "time"

// RequestStatus is the lifecycle of a conversion request.
// A request is resolved exactly once; approved and rejected are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ConversionRequest asks an org authority to promote a lead into a
// full student account. At most one pending request exists per lead.
type ConversionRequest struct {
	ID          int64         `json:"id"`
	LeadID      int64         `json:"lead_id"`
	OrgID       int64         `json:"org_id"`
	RequestedBy int64         `json:"requested_by"`
	Status      RequestStatus `json:"status"`

	ResolvedBy   *int64     `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty" gorm:"type:text"`

	// StudentID is set on approval to the account the request produced.
	StudentID *int64 `json:"student_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsResolved reports whether the request has left the pending state.
func (r *ConversionRequest) IsResolved() bool {
	return r.Status != RequestPending
}
