package notification

import (
	"context"

	"educrm/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type UserRepository interface {
	ListOrgAdmins(ctx context.Context, orgID int64) ([]*domain.User, error)
}
