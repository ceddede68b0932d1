package repository

import (
	"context"

	"educrm/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name"`
	Category string `gorm:"column:category"`
	Active   bool   `gorm:"column:active"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Active:   m.Active,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := serviceModel{Name: s.Name, Category: s.Category, Active: s.Active}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) ListActive(ctx context.Context) ([]*domain.Service, error) {
	var ms []serviceModel
	tx := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]*domain.Service, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainService(m))
	}
	return out, nil
}
