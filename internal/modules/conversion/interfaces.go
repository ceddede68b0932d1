package conversion

import (
	"context"

	"educrm/internal/domain"
)

type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
}

type RequestRepository interface {
	Create(ctx context.Context, c *domain.ConversionRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ConversionRequest, error)
	GetPendingByLead(ctx context.Context, leadID int64) (*domain.ConversionRequest, error)
	Update(ctx context.Context, c *domain.ConversionRequest) error
	ListByOrg(ctx context.Context, orgID int64, status *domain.RequestStatus, limit, offset int) ([]*domain.ConversionRequest, int, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type StudentRepository interface {
	Create(ctx context.Context, s *domain.Student) error
	GetByID(ctx context.Context, id int64) (*domain.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Student, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.ServiceRegistration) error
	GetByStudentService(ctx context.Context, studentID, serviceID int64) (*domain.ServiceRegistration, error)
}

// NotificationSender delivers best-effort notices after a state
// transition commits. Failures are never rolled back into the workflow.
type NotificationSender interface {
	NotifyConversionRequested(ctx context.Context, orgID, leadID, requestID int64) error
	NotifyConversionApproved(ctx context.Context, staffID, leadID, studentID int64) error
	NotifyConversionRejected(ctx context.Context, staffID, leadID int64, reason string) error
	NotifyAccountCreated(ctx context.Context, userID int64) error
}
