package repository

import (
	"context"
	"time"

	"educrm/internal/domain"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

type documentModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	OwnerType    string     `gorm:"column:owner_type;index:idx_doc_slot"`
	OwnerID      int64      `gorm:"column:owner_id;index:idx_doc_slot"`
	DocumentKey  string     `gorm:"column:document_key;index:idx_doc_slot"`
	Version      int        `gorm:"column:version"`
	Status       string     `gorm:"column:status"`
	FileName     string     `gorm:"column:file_name"`
	FilePath     string     `gorm:"column:file_path"`
	FileURL      string     `gorm:"column:file_url"`
	MimeType     string     `gorm:"column:mime_type"`
	Size         int64      `gorm:"column:size"`
	UploadedBy   int64      `gorm:"column:uploaded_by"`
	UploaderRole string     `gorm:"column:uploader_role"`
	ReviewedBy   *int64     `gorm:"column:reviewed_by"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (documentModel) TableName() string { return "document_records" }

func toDomainDocument(m documentModel) *domain.DocumentRecord {
	return &domain.DocumentRecord{
		ID:           m.ID,
		OwnerType:    domain.DocumentOwnerType(m.OwnerType),
		OwnerID:      m.OwnerID,
		DocumentKey:  m.DocumentKey,
		Version:      m.Version,
		Status:       domain.DocumentStatus(m.Status),
		FileName:     m.FileName,
		FilePath:     m.FilePath,
		FileURL:      m.FileURL,
		MimeType:     m.MimeType,
		Size:         m.Size,
		UploadedBy:   m.UploadedBy,
		UploaderRole: domain.UserRole(m.UploaderRole),
		ReviewedBy:   m.ReviewedBy,
		ReviewedAt:   m.ReviewedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDocumentModel(d *domain.DocumentRecord) documentModel {
	return documentModel{
		ID:           d.ID,
		OwnerType:    string(d.OwnerType),
		OwnerID:      d.OwnerID,
		DocumentKey:  d.DocumentKey,
		Version:      d.Version,
		Status:       string(d.Status),
		FileName:     d.FileName,
		FilePath:     d.FilePath,
		FileURL:      d.FileURL,
		MimeType:     d.MimeType,
		Size:         d.Size,
		UploadedBy:   d.UploadedBy,
		UploaderRole: string(d.UploaderRole),
		ReviewedBy:   d.ReviewedBy,
		ReviewedAt:   d.ReviewedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.DocumentRecord) error {
	m := toDocumentModel(d)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainDocument(m)
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.DocumentRecord, error) {
	var m documentModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDocument(m), nil
}

// GetBySlot returns the single record occupying a single-file slot,
// or (nil, nil) when the slot is empty.
func (r *DocumentRepository) GetBySlot(ctx context.Context, ownerType domain.DocumentOwnerType, ownerID int64, key string) (*domain.DocumentRecord, error) {
	var m documentModel
	tx := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND document_key = ?", string(ownerType), ownerID, key).
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainDocument(m), nil
}

func (r *DocumentRepository) Update(ctx context.Context, d *domain.DocumentRecord) error {
	m := toDocumentModel(d)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainDocument(m)
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&documentModel{}, id).Error
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerType domain.DocumentOwnerType, ownerID int64) ([]*domain.DocumentRecord, error) {
	var ms []documentModel
	tx := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", string(ownerType), ownerID).
		Order("document_key ASC, created_at ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.DocumentRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainDocument(m))
	}
	return out, nil
}
