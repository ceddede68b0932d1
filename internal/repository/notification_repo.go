package repository

import (
	"context"
	"encoding/json"
	"time"

	"educrm/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	Type      string    `gorm:"column:type"`
	Title     string    `gorm:"column:title"`
	Message   string    `gorm:"column:message;type:text"`
	IsRead    bool      `gorm:"column:is_read"`
	Data      *string   `gorm:"column:data;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.Data != nil {
		if raw, err := json.Marshal(n.Data); err == nil {
			s := string(raw)
			m.Data = &s
		}
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	n.ID = m.ID
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, int, error) {
	var unread int64
	if err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}

	var ms []notificationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]*domain.Notification, 0, len(ms))
	for _, m := range ms {
		n := &domain.Notification{
			ID:        m.ID,
			UserID:    m.UserID,
			Type:      domain.NotificationType(m.Type),
			Title:     m.Title,
			Message:   m.Message,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		}
		if m.Data != nil {
			var data map[string]any
			if err := json.Unmarshal([]byte(*m.Data), &data); err == nil {
				n.Data = data
			}
		}
		out = append(out, n)
	}
	return out, int(unread), nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
