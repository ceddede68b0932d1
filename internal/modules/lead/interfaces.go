package lead

import (
	"context"

	"educrm/internal/domain"
	"educrm/internal/repository"
)

type Repository interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	GetOpenByEmail(ctx context.Context, orgID int64, email string) (*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
	List(ctx context.Context, f repository.LeadFilter, limit, offset int) ([]*domain.Lead, int, error)
	Delete(ctx context.Context, id int64) error
	AddNote(ctx context.Context, n *domain.LeadNote) error
	ListNotes(ctx context.Context, leadID int64) ([]*domain.LeadNote, error)
}

type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
