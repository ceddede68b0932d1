package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"educrm/internal/authz"
	"educrm/internal/domain"

	"gorm.io/gorm"
)

// Service keeps an append-only transcript per lead or registration.
// Messages are plain rows that readers poll; there is no delivery layer.
type Service struct {
	messages MessageRepository
	leads    LeadRepository
	regs     RegistrationRepository
	students StudentRepository
	users    UserRepository
}

func NewService(
	messages MessageRepository,
	leads LeadRepository,
	regs RegistrationRepository,
	students StudentRepository,
	users UserRepository,
) *Service {
	return &Service{messages: messages, leads: leads, regs: regs, students: students, users: users}
}

// resolveThread checks the viewer may participate in the thread.
// Lead threads belong to the assigned staff; registration threads open
// once staff is bound and admit the active staff and the student.
func (s *Service) resolveThread(ctx context.Context, viewer authz.Viewer, threadType domain.ThreadType, threadID int64) error {
	switch threadType {
	case domain.ThreadLead:
		lead, err := s.leads.GetByID(ctx, threadID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrThreadNotFound
			}
			return err
		}
		access := authz.ResolveLead(viewer, lead)
		if !access.IsOwner && !access.IsOrgAuthority {
			return ErrForbidden
		}
		return nil
	case domain.ThreadRegistration:
		reg, err := s.regs.GetByID(ctx, threadID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrThreadNotFound
			}
			return err
		}
		if !reg.HasActiveStaff() {
			return ErrThreadUnavailable
		}
		access := authz.ResolveRegistration(viewer, reg)
		if !access.IsOwner && !access.IsOrgAuthority && viewer.Role == domain.RoleStudent {
			student, err := s.students.GetByID(ctx, reg.StudentID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if student != nil && student.UserID == viewer.ID {
				access.IsOwner = true
			}
		}
		if !access.IsOwner && !access.IsOrgAuthority {
			return ErrForbidden
		}
		return nil
	default:
		return ErrThreadNotFound
	}
}

// Post appends a message with a sender-name snapshot.
func (s *Service) Post(ctx context.Context, viewer authz.Viewer, threadType domain.ThreadType, threadID int64, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if err := s.resolveThread(ctx, viewer, threadType, threadID); err != nil {
		return nil, err
	}

	senderName := ""
	if sender, err := s.users.GetByID(ctx, viewer.ID); err == nil && sender != nil {
		senderName = sender.Name
	}

	msg := &domain.ChatMessage{
		ThreadType: threadType,
		ThreadID:   threadID,
		SenderID:   viewer.ID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns the transcript oldest first.
func (s *Service) List(ctx context.Context, viewer authz.Viewer, threadType domain.ThreadType, threadID int64, limit, offset int) ([]*domain.ChatMessage, error) {
	if err := s.resolveThread(ctx, viewer, threadType, threadID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.List(ctx, threadType, threadID, limit, offset)
}
