package repository

import (
	"context"
	"testing"

	"educrm/internal/database"
	"educrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

// A second insert for the same (student, service) pair must come back as
// ErrDuplicateRegistration, on sqlite as well as postgres.
func TestRegistrationCreate_DuplicatePair(t *testing.T) {
	repo := NewRegistrationRepository(testDB(t))
	ctx := context.Background()

	first := &domain.ServiceRegistration{
		StudentID: 5, ServiceID: 3, OrgID: 10,
		Status: domain.RegistrationRegistered,
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := &domain.ServiceRegistration{
		StudentID: 5, ServiceID: 3, OrgID: 10,
		Status: domain.RegistrationRegistered,
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateRegistration)

	other := &domain.ServiceRegistration{
		StudentID: 5, ServiceID: 4, OrgID: 10,
		Status: domain.RegistrationRegistered,
	}
	assert.NoError(t, repo.Create(ctx, other))
}
