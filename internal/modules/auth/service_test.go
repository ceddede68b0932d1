package auth

import (
	"context"
	"strings"
	"testing"

	"educrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(userID int64, role string, orgID int64) (string, error) {
	return "token", nil
}

func newService() (*Service, *fakeUserRepo) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Email: "staff@edu.example", PasswordHash: string(hash), Role: domain.RoleCounselor, OrgID: 10},
	}}
	return NewService(repo, fakeIssuer{}), repo
}

func TestLogin(t *testing.T) {
	svc, _ := newService()

	result, err := svc.Login(context.Background(), LoginRequest{Email: "Staff@edu.example", Password: "secret123"})
	assert.NoError(t, err)
	assert.Equal(t, "token", result.AccessToken)
	assert.Empty(t, result.User.PasswordHash)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Login(context.Background(), LoginRequest{Email: "staff@edu.example", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@edu.example", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newService()

	err := svc.ChangePassword(context.Background(), 1, ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "evenmoresecret",
	})
	assert.NoError(t, err)

	stored := repo.users[1]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("evenmoresecret")))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, _ := newService()

	err := svc.ChangePassword(context.Background(), 1, ChangePasswordRequest{
		CurrentPassword: "nope",
		NewPassword:     "evenmoresecret",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
}
