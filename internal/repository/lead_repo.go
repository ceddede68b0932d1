package repository

import (
	"context"
	"strings"
	"time"

	"educrm/internal/domain"
	"educrm/internal/pkg/utils"

	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) DB() *gorm.DB { return r.db }

type leadModel struct {
	ID                  int64     `gorm:"column:id;primaryKey"`
	OrgID               int64     `gorm:"column:org_id;index"`
	Name                string    `gorm:"column:name"`
	Email               string    `gorm:"column:email;index"`
	Phone               string    `gorm:"column:phone"`
	Locality            *string   `gorm:"column:locality"`
	ServiceIDs          string    `gorm:"column:service_ids;type:text"`
	Stage               string    `gorm:"column:stage;index"`
	AssignedStaffID     *int64    `gorm:"column:assigned_staff_id;index"`
	ConversionStatus    string    `gorm:"column:conversion_status"`
	ConversionRequestID *int64    `gorm:"column:conversion_request_id"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (leadModel) TableName() string { return "leads" }

type leadNoteModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	LeadID     int64     `gorm:"column:lead_id;index"`
	AuthorID   int64     `gorm:"column:author_id"`
	AuthorName string    `gorm:"column:author_name"`
	Text       string    `gorm:"column:text;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (leadNoteModel) TableName() string { return "lead_notes" }

func toDomainLead(m leadModel) *domain.Lead {
	var locality string
	if m.Locality != nil {
		locality = *m.Locality
	}

	return &domain.Lead{
		ID:                  m.ID,
		OrgID:               m.OrgID,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Locality:            locality,
		ServiceIDs:          utils.StringToInt64s(m.ServiceIDs),
		Stage:               domain.Stage(m.Stage),
		AssignedStaffID:     m.AssignedStaffID,
		ConversionStatus:    domain.ConversionStatus(m.ConversionStatus),
		ConversionRequestID: m.ConversionRequestID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toLeadModel(l *domain.Lead) leadModel {
	var locality *string
	if l.Locality != "" {
		v := l.Locality
		locality = &v
	}

	return leadModel{
		ID:                  l.ID,
		OrgID:               l.OrgID,
		Name:                l.Name,
		Email:               strings.TrimSpace(strings.ToLower(l.Email)),
		Phone:               l.Phone,
		Locality:            locality,
		ServiceIDs:          utils.Int64sToString(l.ServiceIDs),
		Stage:               string(l.Stage),
		AssignedStaffID:     l.AssignedStaffID,
		ConversionStatus:    string(l.ConversionStatus),
		ConversionRequestID: l.ConversionRequestID,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainLead(m)
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLead(m), nil
}

// GetOpenByEmail returns the most recent not-yet-converted lead for an
// email, or (nil, nil).
func (r *LeadRepository) GetOpenByEmail(ctx context.Context, orgID int64, email string) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).
		Where("org_id = ? AND LOWER(email) = ? AND stage <> ?",
			orgID, strings.ToLower(strings.TrimSpace(email)), string(domain.StageConverted)).
		Order("created_at DESC").
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainLead(m), nil
}

func (r *LeadRepository) Update(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainLead(m)
	return nil
}

type LeadFilter struct {
	OrgID           int64
	Stage           *domain.Stage
	AssignedStaffID *int64
}

func (r *LeadRepository) List(ctx context.Context, f LeadFilter, limit, offset int) ([]*domain.Lead, int, error) {
	q := r.db.WithContext(ctx).Model(&leadModel{}).Where("org_id = ?", f.OrgID)
	if f.Stage != nil {
		q = q.Where("stage = ?", string(*f.Stage))
	}
	if f.AssignedStaffID != nil {
		q = q.Where("assigned_staff_id = ?", *f.AssignedStaffID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []leadModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	leads := make([]*domain.Lead, 0, len(ms))
	for _, m := range ms {
		leads = append(leads, toDomainLead(m))
	}
	return leads, int(total), nil
}

// Delete removes the lead and its notes. This is the coarse "reject the
// person" operation, not conversion rejection.
func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lead_id = ?", id).Delete(&leadNoteModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&leadModel{}, id).Error
	})
}

func (r *LeadRepository) AddNote(ctx context.Context, n *domain.LeadNote) error {
	m := leadNoteModel{
		LeadID:     n.LeadID,
		AuthorID:   n.AuthorID,
		AuthorName: n.AuthorName,
		Text:       n.Text,
		CreatedAt:  n.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	n.ID = m.ID
	return nil
}

func (r *LeadRepository) ListNotes(ctx context.Context, leadID int64) ([]*domain.LeadNote, error) {
	var ms []leadNoteModel
	tx := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	notes := make([]*domain.LeadNote, 0, len(ms))
	for _, m := range ms {
		notes = append(notes, &domain.LeadNote{
			ID:         m.ID,
			LeadID:     m.LeadID,
			AuthorID:   m.AuthorID,
			AuthorName: m.AuthorName,
			Text:       m.Text,
			CreatedAt:  m.CreatedAt,
		})
	}
	return notes, nil
}
