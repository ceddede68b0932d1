package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"educrm/internal/domain"
)

// Service writes in-app notification rows. It backs the sender
// interfaces the workflow modules call best-effort; a failed insert is
// logged and reported but callers never roll back on it.
type Service struct {
	repo  Repository
	users UserRepository
}

func NewService(repo Repository, users UserRepository) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) create(ctx context.Context, userID int64, typ domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notification: create %s for user %d failed: %v", typ, userID, err)
		return err
	}
	return nil
}

// fanOutToOrgAdmins sends one notification per org_admin of the org.
func (s *Service) fanOutToOrgAdmins(ctx context.Context, orgID int64, typ domain.NotificationType, title, message string, data map[string]any) error {
	admins, err := s.users.ListOrgAdmins(ctx, orgID)
	if err != nil {
		log.Printf("notification: list admins of org %d failed: %v", orgID, err)
		return err
	}
	for _, admin := range admins {
		_ = s.create(ctx, admin.ID, typ, title, message, data)
	}
	return nil
}

func (s *Service) NotifyLeadAssigned(ctx context.Context, staffID, leadID int64) error {
	return s.create(ctx, staffID, domain.NotifLeadAssigned,
		"Lead assigned to you",
		fmt.Sprintf("Lead #%d is now in your pipeline", leadID),
		map[string]any{"lead_id": leadID})
}

func (s *Service) NotifyConversionRequested(ctx context.Context, orgID, leadID, requestID int64) error {
	return s.fanOutToOrgAdmins(ctx, orgID, domain.NotifConversionRequest,
		"Conversion request awaiting review",
		fmt.Sprintf("Lead #%d was submitted for conversion", leadID),
		map[string]any{"lead_id": leadID, "request_id": requestID})
}

func (s *Service) NotifyConversionApproved(ctx context.Context, staffID, leadID, studentID int64) error {
	return s.create(ctx, staffID, domain.NotifConversionApproved,
		"Conversion approved",
		fmt.Sprintf("Lead #%d is now student #%d", leadID, studentID),
		map[string]any{"lead_id": leadID, "student_id": studentID})
}

func (s *Service) NotifyConversionRejected(ctx context.Context, staffID, leadID int64, reason string) error {
	return s.create(ctx, staffID, domain.NotifConversionRejected,
		"Conversion rejected",
		reason,
		map[string]any{"lead_id": leadID})
}

func (s *Service) NotifyAccountCreated(ctx context.Context, userID int64) error {
	return s.create(ctx, userID, domain.NotifAccountCreated,
		"Welcome! Your student account is ready",
		"Use the password reset flow to choose your password.",
		nil)
}

func (s *Service) NotifyDocumentUploaded(ctx context.Context, orgID int64, rec *domain.DocumentRecord) error {
	// Reviewer uploads arrive pre-approved; nobody needs a review nudge.
	if rec.Status == domain.DocumentApproved {
		return nil
	}
	return s.fanOutToOrgAdmins(ctx, orgID, domain.NotifDocumentUploaded,
		"Document awaiting review",
		fmt.Sprintf("%s v%d uploaded", rec.DocumentKey, rec.Version),
		map[string]any{"record_id": rec.ID, "document_key": rec.DocumentKey})
}

func (s *Service) NotifyDocumentApproved(ctx context.Context, userID int64, rec *domain.DocumentRecord) error {
	return s.create(ctx, userID, domain.NotifDocumentApproved,
		"Document approved",
		fmt.Sprintf("%s v%d was approved", rec.DocumentKey, rec.Version),
		map[string]any{"record_id": rec.ID, "document_key": rec.DocumentKey})
}

func (s *Service) NotifyDocumentRejected(ctx context.Context, userID int64, documentKey, reason string) error {
	return s.create(ctx, userID, domain.NotifDocumentRejected,
		fmt.Sprintf("Document %s rejected", documentKey),
		reason,
		map[string]any{"document_key": documentKey})
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]*domain.Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) MarkAsRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
