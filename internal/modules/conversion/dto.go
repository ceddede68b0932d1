package conversion

import "educrm/internal/domain"

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListResponse is a paginated request listing.
type ListResponse struct {
	Requests []*domain.ConversionRequest `json:"requests"`
	Total    int                         `json:"total"`
}
