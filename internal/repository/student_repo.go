package repository

import (
	"context"
	"time"

	"educrm/internal/domain"

	"gorm.io/gorm"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

type studentModel struct {
	ID                  int64     `gorm:"column:id;primaryKey"`
	UserID              int64     `gorm:"column:user_id;uniqueIndex"`
	OrgID               int64     `gorm:"column:org_id;index"`
	LeadID              *int64    `gorm:"column:lead_id"`
	ConversionRequestID *int64    `gorm:"column:conversion_request_id"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (studentModel) TableName() string { return "students" }

func toDomainStudent(m studentModel) *domain.Student {
	return &domain.Student{
		ID:                  m.ID,
		UserID:              m.UserID,
		OrgID:               m.OrgID,
		LeadID:              m.LeadID,
		ConversionRequestID: m.ConversionRequestID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) error {
	m := studentModel{
		UserID:              s.UserID,
		OrgID:               s.OrgID,
		LeadID:              s.LeadID,
		ConversionRequestID: s.ConversionRequestID,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainStudent(m)
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	var m studentModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainStudent(m), nil
}

// GetByUserID returns (nil, nil) when the user has no student record.
// The conversion workflow leans on this for its find-or-create step.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Student, error) {
	var m studentModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainStudent(m), nil
}
