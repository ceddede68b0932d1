package domain

import "time"

// Stage is a lead's position in the sales pipeline.
type Stage string

const (
	StageNew       Stage = "new"
	StageHot       Stage = "hot"
	StageWarm      Stage = "warm"
	StageCold      Stage = "cold"
	StageConverted Stage = "converted"
	StageClosed    Stage = "closed"
)

// IsTerminal reports whether no further stage transitions are allowed.
func (s Stage) IsTerminal() bool {
	return s == StageConverted || s == StageClosed
}

// ConversionStatus tracks the lead side of the conversion workflow.
type ConversionStatus string

const (
	ConversionNone     ConversionStatus = "none"
	ConversionPending  ConversionStatus = "pending"
	ConversionApproved ConversionStatus = "approved"
	ConversionRejected ConversionStatus = "rejected"
)

// Lead is a prospective customer captured before becoming a student.
type Lead struct {
	ID       int64  `json:"id"`
	OrgID    int64  `json:"org_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Locality string `json:"locality,omitempty"`

	// ServiceIDs are the catalog services the lead asked about;
	// stored as a JSON text column.
	ServiceIDs []int64 `json:"service_ids" gorm:"-"`

	Stage           Stage  `json:"stage"`
	AssignedStaffID *int64 `json:"assigned_staff_id,omitempty"`

	ConversionStatus    ConversionStatus `json:"conversion_status"`
	ConversionRequestID *int64           `json:"conversion_request_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsConverted reports whether the lead has reached the terminal converted stage.
func (l *Lead) IsConverted() bool {
	return l.Stage == StageConverted
}

// LeadNote is one immutable entry in a lead's audit trail.
// Notes are never edited or deleted.
type LeadNote struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"lead_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
