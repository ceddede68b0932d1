package chat

import "educrm/internal/domain"

type PostRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type ListResponse struct {
	Messages []*domain.ChatMessage `json:"messages"`
}
