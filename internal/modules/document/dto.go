package document

import "educrm/internal/domain"

type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ListResponse struct {
	Documents []*domain.DocumentRecord `json:"documents"`
}
