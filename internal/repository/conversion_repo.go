package repository

import (
	"context"
	"time"

	"educrm/internal/domain"

	"gorm.io/gorm"
)

type ConversionRepository struct {
	db *gorm.DB
}

func NewConversionRepository(db *gorm.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

type conversionRequestModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	LeadID       int64      `gorm:"column:lead_id;index"`
	OrgID        int64      `gorm:"column:org_id;index"`
	RequestedBy  int64      `gorm:"column:requested_by"`
	Status       string     `gorm:"column:status;index"`
	ResolvedBy   *int64     `gorm:"column:resolved_by"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at"`
	RejectReason *string    `gorm:"column:reject_reason"`
	StudentID    *int64     `gorm:"column:student_id"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
}

func (conversionRequestModel) TableName() string { return "conversion_requests" }

func toDomainConversionRequest(m conversionRequestModel) *domain.ConversionRequest {
	var reason string
	if m.RejectReason != nil {
		reason = *m.RejectReason
	}

	return &domain.ConversionRequest{
		ID:           m.ID,
		LeadID:       m.LeadID,
		OrgID:        m.OrgID,
		RequestedBy:  m.RequestedBy,
		Status:       domain.RequestStatus(m.Status),
		ResolvedBy:   m.ResolvedBy,
		ResolvedAt:   m.ResolvedAt,
		RejectReason: reason,
		StudentID:    m.StudentID,
		CreatedAt:    m.CreatedAt,
	}
}

func toConversionRequestModel(c *domain.ConversionRequest) conversionRequestModel {
	var reason *string
	if c.RejectReason != "" {
		v := c.RejectReason
		reason = &v
	}

	return conversionRequestModel{
		ID:           c.ID,
		LeadID:       c.LeadID,
		OrgID:        c.OrgID,
		RequestedBy:  c.RequestedBy,
		Status:       string(c.Status),
		ResolvedBy:   c.ResolvedBy,
		ResolvedAt:   c.ResolvedAt,
		RejectReason: reason,
		StudentID:    c.StudentID,
		CreatedAt:    c.CreatedAt,
	}
}

func (r *ConversionRepository) Create(ctx context.Context, c *domain.ConversionRequest) error {
	m := toConversionRequestModel(c)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainConversionRequest(m)
	return nil
}

func (r *ConversionRepository) GetByID(ctx context.Context, id int64) (*domain.ConversionRequest, error) {
	var m conversionRequestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainConversionRequest(m), nil
}

// GetPendingByLead returns the lead's open request, or (nil, nil).
func (r *ConversionRepository) GetPendingByLead(ctx context.Context, leadID int64) (*domain.ConversionRequest, error) {
	var m conversionRequestModel
	tx := r.db.WithContext(ctx).
		Where("lead_id = ? AND status = ?", leadID, string(domain.RequestPending)).
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainConversionRequest(m), nil
}

func (r *ConversionRepository) Update(ctx context.Context, c *domain.ConversionRequest) error {
	m := toConversionRequestModel(c)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainConversionRequest(m)
	return nil
}

func (r *ConversionRepository) ListByOrg(ctx context.Context, orgID int64, status *domain.RequestStatus, limit, offset int) ([]*domain.ConversionRequest, int, error) {
	q := r.db.WithContext(ctx).Model(&conversionRequestModel{}).Where("org_id = ?", orgID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []conversionRequestModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*domain.ConversionRequest, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainConversionRequest(m))
	}
	return out, int(total), nil
}
