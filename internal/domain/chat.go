package domain

import "time"

// ThreadType selects which entity a chat transcript hangs off.
type ThreadType string

const (
	ThreadLead         ThreadType = "lead"
	ThreadRegistration ThreadType = "registration"
)

// ChatMessage is one entry in an append-only transcript. There is no
// delivery machinery; readers poll the log.
type ChatMessage struct {
	ID         int64      `json:"id"`
	ThreadType ThreadType `json:"thread_type"`
	ThreadID   int64      `json:"thread_id"`
	SenderID   int64      `json:"sender_id"`
	SenderName string     `json:"sender_name"`
	Text       string     `json:"text" gorm:"type:text"`
	CreatedAt  time.Time  `json:"created_at"`
}
