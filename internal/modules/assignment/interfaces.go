package assignment

import (
	"context"

	"educrm/internal/domain"
)

// LeadRepository is the slice of the lead store the assignment manager needs.
type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
}

type RegistrationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceRegistration, error)
	Update(ctx context.Context, reg *domain.ServiceRegistration) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// NotificationSender delivers best-effort notices; failures are logged
// by the implementation and never affect the mutation.
type NotificationSender interface {
	NotifyLeadAssigned(ctx context.Context, staffID, leadID int64) error
}
