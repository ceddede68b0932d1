package document

import (
	"context"

	"educrm/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, d *domain.DocumentRecord) error
	GetByID(ctx context.Context, id int64) (*domain.DocumentRecord, error)
	GetBySlot(ctx context.Context, ownerType domain.DocumentOwnerType, ownerID int64, key string) (*domain.DocumentRecord, error)
	Update(ctx context.Context, d *domain.DocumentRecord) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerType domain.DocumentOwnerType, ownerID int64) ([]*domain.DocumentRecord, error)
}

type RegistrationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceRegistration, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Student, error)
}

// NotificationSender delivers best-effort review notices. Failures do
// not affect the document operation that triggered them.
type NotificationSender interface {
	NotifyDocumentUploaded(ctx context.Context, orgID int64, rec *domain.DocumentRecord) error
	NotifyDocumentApproved(ctx context.Context, userID int64, rec *domain.DocumentRecord) error
	NotifyDocumentRejected(ctx context.Context, userID int64, documentKey, reason string) error
}
