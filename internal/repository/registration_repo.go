package repository

import (
	"context"
	"errors"
	"time"

	"educrm/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateRegistration signals a second registration for the same
// (student, service) pair.
var ErrDuplicateRegistration = errors.New("registration already exists for student and service")

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) DB() *gorm.DB { return r.db }

type registrationModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	StudentID        int64     `gorm:"column:student_id;uniqueIndex:idx_student_service"`
	ServiceID        int64     `gorm:"column:service_id;uniqueIndex:idx_student_service"`
	OrgID            int64     `gorm:"column:org_id;index"`
	Status           string    `gorm:"column:status"`
	PrimaryStaffID   *int64    `gorm:"column:primary_staff_id"`
	SecondaryStaffID *int64    `gorm:"column:secondary_staff_id"`
	ActiveStaffID    *int64    `gorm:"column:active_staff_id;index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (registrationModel) TableName() string { return "service_registrations" }

func toDomainRegistration(m registrationModel) *domain.ServiceRegistration {
	return &domain.ServiceRegistration{
		ID:               m.ID,
		StudentID:        m.StudentID,
		ServiceID:        m.ServiceID,
		OrgID:            m.OrgID,
		Status:           domain.RegistrationStatus(m.Status),
		PrimaryStaffID:   m.PrimaryStaffID,
		SecondaryStaffID: m.SecondaryStaffID,
		ActiveStaffID:    m.ActiveStaffID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toRegistrationModel(reg *domain.ServiceRegistration) registrationModel {
	return registrationModel{
		ID:               reg.ID,
		StudentID:        reg.StudentID,
		ServiceID:        reg.ServiceID,
		OrgID:            reg.OrgID,
		Status:           string(reg.Status),
		PrimaryStaffID:   reg.PrimaryStaffID,
		SecondaryStaffID: reg.SecondaryStaffID,
		ActiveStaffID:    reg.ActiveStaffID,
		CreatedAt:        reg.CreatedAt,
		UpdatedAt:        reg.UpdatedAt,
	}
}

// isDuplicateKey recognizes unique violations from both backends: the
// connection is opened with TranslateError, so sqlite and postgres both
// surface gorm.ErrDuplicatedKey; the SQLSTATE check covers raw pg errors.
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.ServiceRegistration) error {
	m := toRegistrationModel(reg)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicateKey(tx.Error) {
			return ErrDuplicateRegistration
		}
		return tx.Error
	}
	*reg = *toDomainRegistration(m)
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRegistration, error) {
	var m registrationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRegistration(m), nil
}

// GetByStudentService returns (nil, nil) when the pair is unregistered.
func (r *RegistrationRepository) GetByStudentService(ctx context.Context, studentID, serviceID int64) (*domain.ServiceRegistration, error) {
	var m registrationModel
	tx := r.db.WithContext(ctx).
		Where("student_id = ? AND service_id = ?", studentID, serviceID).
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainRegistration(m), nil
}

func (r *RegistrationRepository) Update(ctx context.Context, reg *domain.ServiceRegistration) error {
	m := toRegistrationModel(reg)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*reg = *toDomainRegistration(m)
	return nil
}

func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*domain.ServiceRegistration, error) {
	var ms []registrationModel
	tx := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.ServiceRegistration, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainRegistration(m))
	}
	return out, nil
}
