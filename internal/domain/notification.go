package domain

import "time"

type NotificationType string

const (
	NotifLeadAssigned       NotificationType = "lead_assigned"
	NotifConversionRequest  NotificationType = "conversion_requested"
	NotifConversionApproved NotificationType = "conversion_approved"
	NotifConversionRejected NotificationType = "conversion_rejected"
	NotifAccountCreated     NotificationType = "account_created"
	NotifDocumentUploaded   NotificationType = "document_uploaded"
	NotifDocumentApproved   NotificationType = "document_approved"
	NotifDocumentRejected   NotificationType = "document_rejected"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"is_read"`
	Data      any              `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
