package chat

import (
	"context"

	"educrm/internal/domain"
)

type MessageRepository interface {
	Append(ctx context.Context, m *domain.ChatMessage) error
	List(ctx context.Context, threadType domain.ThreadType, threadID int64, limit, offset int) ([]*domain.ChatMessage, error)
}

type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
}

type RegistrationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceRegistration, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Student, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
