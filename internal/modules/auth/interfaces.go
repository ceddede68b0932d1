package auth

import (
	"context"

	"educrm/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, role string, orgID int64) (string, error)
}
