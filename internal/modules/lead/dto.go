package lead

import "educrm/internal/domain"

// SubmitRequest is the public intake form.
type SubmitRequest struct {
	OrgID      int64   `json:"org_id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"required"`
	Locality   string  `json:"locality"`
	ServiceIDs []int64 `json:"service_ids" validate:"required,min=1"`
}

// SetStageRequest moves a lead within the pipeline.
type SetStageRequest struct {
	Stage domain.Stage `json:"stage" validate:"required,oneof=new hot warm cold closed"`
}

// AddNoteRequest appends one immutable note.
type AddNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

// ListResponse is a paginated lead listing.
type ListResponse struct {
	Leads []*domain.Lead `json:"leads"`
	Total int            `json:"total"`
}
