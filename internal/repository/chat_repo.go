package repository

import (
	"context"
	"time"

	"educrm/internal/domain"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

type chatMessageModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ThreadType string    `gorm:"column:thread_type;index:idx_thread"`
	ThreadID   int64     `gorm:"column:thread_id;index:idx_thread"`
	SenderID   int64     `gorm:"column:sender_id"`
	SenderName string    `gorm:"column:sender_name"`
	Text       string    `gorm:"column:text;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (chatMessageModel) TableName() string { return "chat_messages" }

// Append adds a message to a transcript. Messages are never edited or
// removed.
func (r *ChatRepository) Append(ctx context.Context, m *domain.ChatMessage) error {
	row := chatMessageModel{
		ThreadType: string(m.ThreadType),
		ThreadID:   m.ThreadID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&row)
	if tx.Error != nil {
		return tx.Error
	}
	m.ID = row.ID
	return nil
}

func (r *ChatRepository) List(ctx context.Context, threadType domain.ThreadType, threadID int64, limit, offset int) ([]*domain.ChatMessage, error) {
	var rows []chatMessageModel
	tx := r.db.WithContext(ctx).
		Where("thread_type = ? AND thread_id = ?", string(threadType), threadID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.ChatMessage{
			ID:         row.ID,
			ThreadType: domain.ThreadType(row.ThreadType),
			ThreadID:   row.ThreadID,
			SenderID:   row.SenderID,
			SenderName: row.SenderName,
			Text:       row.Text,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
