package assignment

import (
	"context"
	"testing"

	"educrm/internal/authz"
	"educrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockLeadRepo struct {
	mock.Mock
}

func (m *MockLeadRepo) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepo) Update(ctx context.Context, l *domain.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

type MockRegRepo struct {
	mock.Mock
}

func (m *MockRegRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRegistration), args.Error(1)
}

func (m *MockRegRepo) Update(ctx context.Context, reg *domain.ServiceRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func i64(v int64) *int64 { return &v }

func orgAdmin() authz.Viewer {
	return authz.Viewer{ID: 900, Role: domain.RoleOrgAdmin, OrgID: 10}
}

func counselor(id int64) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleCounselor, OrgID: 10}
}

func TestAssignLead(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	lead := &domain.Lead{ID: 1, OrgID: 10, Stage: domain.StageNew}
	leads.On("GetByID", mock.Anything, int64(1)).Return(lead, nil)
	users.On("GetByID", mock.Anything, int64(100)).Return(counselor(100), nil)
	leads.On("Update", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.AssignLead(context.Background(), orgAdmin(), 1, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), *got.AssignedStaffID)
}

func TestAssignLead_StaffMissing(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	leads.On("GetByID", mock.Anything, int64(1)).Return(&domain.Lead{ID: 1, OrgID: 10}, nil)
	users.On("GetByID", mock.Anything, int64(100)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.AssignLead(context.Background(), orgAdmin(), 1, 100)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestAssignLead_WrongOrg(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	leads.On("GetByID", mock.Anything, int64(1)).Return(&domain.Lead{ID: 1, OrgID: 10}, nil)
	users.On("GetByID", mock.Anything, int64(100)).Return(&domain.User{ID: 100, Role: domain.RoleCounselor, OrgID: 99}, nil)

	_, err := svc.AssignLead(context.Background(), orgAdmin(), 1, 100)
	assert.ErrorIs(t, err, ErrWrongOrg)
}

func TestAssignLead_ConvertedIsFrozen(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	leads.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Lead{ID: 1, OrgID: 10, Stage: domain.StageConverted}, nil)

	_, err := svc.AssignLead(context.Background(), orgAdmin(), 1, 100)
	assert.ErrorIs(t, err, ErrLeadConverted)
}

func TestAssignLead_CounselorForbidden(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	leads.On("GetByID", mock.Anything, int64(1)).Return(&domain.Lead{ID: 1, OrgID: 10}, nil)

	v := authz.Viewer{ID: 50, Role: domain.RoleCounselor, OrgID: 10}
	_, err := svc.AssignLead(context.Background(), v, 1, 100)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAssignRegistration_DefaultsActiveToPrimary(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	reg := &domain.ServiceRegistration{ID: 5, OrgID: 10}
	regs.On("GetByID", mock.Anything, int64(5)).Return(reg, nil)
	users.On("GetByID", mock.Anything, int64(100)).Return(counselor(100), nil)
	regs.On("Update", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.AssignRegistration(context.Background(), orgAdmin(), 5, i64(100), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), *got.PrimaryStaffID)
	assert.Equal(t, int64(100), *got.ActiveStaffID)
}

func TestAssignRegistration_KeepsExistingActive(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	reg := &domain.ServiceRegistration{
		ID: 5, OrgID: 10,
		PrimaryStaffID: i64(100), ActiveStaffID: i64(100),
	}
	regs.On("GetByID", mock.Anything, int64(5)).Return(reg, nil)
	users.On("GetByID", mock.Anything, int64(200)).Return(counselor(200), nil)
	regs.On("Update", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.AssignRegistration(context.Background(), orgAdmin(), 5, nil, i64(200))
	assert.NoError(t, err)
	assert.Equal(t, int64(200), *got.SecondaryStaffID)
	assert.Equal(t, int64(100), *got.ActiveStaffID)
}

func TestAssignRegistration_NoStaffGiven(t *testing.T) {
	svc := NewService(new(MockLeadRepo), new(MockRegRepo), new(MockUserRepo), nil)

	_, err := svc.AssignRegistration(context.Background(), orgAdmin(), 5, nil, nil)
	assert.ErrorIs(t, err, ErrNoStaffGiven)
}

func TestSwitchActive(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	reg := &domain.ServiceRegistration{
		ID: 5, OrgID: 10,
		PrimaryStaffID:   i64(100),
		SecondaryStaffID: i64(200),
		ActiveStaffID:    i64(100),
	}
	regs.On("GetByID", mock.Anything, int64(5)).Return(reg, nil)
	regs.On("Update", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.SwitchActive(context.Background(), orgAdmin(), 5, 200)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), *got.ActiveStaffID)
}

func TestSwitchActive_RejectsOutsider(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	reg := &domain.ServiceRegistration{
		ID: 5, OrgID: 10,
		PrimaryStaffID:   i64(100),
		SecondaryStaffID: i64(200),
	}
	regs.On("GetByID", mock.Anything, int64(5)).Return(reg, nil)

	_, err := svc.SwitchActive(context.Background(), orgAdmin(), 5, 300)
	assert.ErrorIs(t, err, ErrNotPrimaryOrSecondary)
}

func TestUnassignRegistration_ClearsAllThree(t *testing.T) {
	leads := new(MockLeadRepo)
	regs := new(MockRegRepo)
	users := new(MockUserRepo)
	svc := NewService(leads, regs, users, nil)

	reg := &domain.ServiceRegistration{
		ID: 5, OrgID: 10,
		PrimaryStaffID:   i64(100),
		SecondaryStaffID: i64(200),
		ActiveStaffID:    i64(200),
	}
	regs.On("GetByID", mock.Anything, int64(5)).Return(reg, nil)
	regs.On("Update", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.UnassignRegistration(context.Background(), orgAdmin(), 5)
	assert.NoError(t, err)
	assert.Nil(t, got.PrimaryStaffID)
	assert.Nil(t, got.SecondaryStaffID)
	assert.Nil(t, got.ActiveStaffID)
}
