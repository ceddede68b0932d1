package conversion

import (
	"context"
	"errors"
	"strings"
	"time"

	"educrm/internal/authz"
	"educrm/internal/domain"
	"educrm/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service orchestrates the request → approve/reject workflow that turns
// a lead into a student. The store offers no cross-document transactions,
// so every approval step checks for its target before creating it; a
// partial failure followed by a retry converges instead of duplicating.
type Service struct {
	leads    LeadRepository
	requests RequestRepository
	users    UserRepository
	students StudentRepository
	regs     RegistrationRepository
	notifs   NotificationSender
}

func NewService(
	leads LeadRepository,
	requests RequestRepository,
	users UserRepository,
	students StudentRepository,
	regs RegistrationRepository,
	notifs NotificationSender,
) *Service {
	return &Service{
		leads:    leads,
		requests: requests,
		users:    users,
		students: students,
		regs:     regs,
		notifs:   notifs,
	}
}

// Request opens a conversion request for a lead. Only the lead's current
// owner (per the resolver) may request; at most one pending request per
// lead exists at any time.
func (s *Service) Request(ctx context.Context, viewer authz.Viewer, leadID int64) (*domain.ConversionRequest, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	if !authz.ResolveLead(viewer, lead).IsOwner {
		return nil, ErrForbidden
	}
	if lead.IsConverted() {
		return nil, ErrAlreadyConverted
	}

	pending, err := s.requests.GetPendingByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrRequestPending
	}

	req := &domain.ConversionRequest{
		LeadID:      lead.ID,
		OrgID:       lead.OrgID,
		RequestedBy: viewer.ID,
		Status:      domain.RequestPending,
		CreatedAt:   time.Now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	lead.ConversionStatus = domain.ConversionPending
	lead.ConversionRequestID = &req.ID
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyConversionRequested(ctx, lead.OrgID, lead.ID, req.ID)
	}

	return req, nil
}

// Approve resolves a pending request into a student account. The
// sequence runs as single-document writes; re-running after a partial
// failure yields the same student, never a second one.
func (s *Service) Approve(ctx context.Context, viewer authz.Viewer, requestID int64) (*domain.Student, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !authz.ResolveOrg(viewer, req.OrgID).IsOrgAuthority {
		return nil, ErrForbidden
	}

	// Retried call after a completed approval: hand back the same
	// student. An earlier run may have died between marking the request
	// and finalizing the lead, so finish that transition here too.
	if req.Status == domain.RequestApproved && req.StudentID != nil {
		student, err := s.students.GetByID(ctx, *req.StudentID)
		if err != nil {
			return nil, err
		}
		if err := s.finalizeLead(ctx, req.LeadID); err != nil {
			return nil, err
		}
		return student, nil
	}
	if req.Status == domain.RequestRejected {
		return nil, ErrRequestResolved
	}

	lead, err := s.leads.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	student, err := s.provisionStudent(ctx, req, lead)
	if err != nil {
		return nil, err
	}

	if err := s.provisionRegistrations(ctx, lead, student); err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = domain.RequestApproved
	req.ResolvedBy = &viewer.ID
	req.ResolvedAt = &now
	req.StudentID = &student.ID
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}

	if err := s.finalizeLead(ctx, lead.ID); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyAccountCreated(ctx, student.UserID)
		if lead.AssignedStaffID != nil {
			_ = s.notifs.NotifyConversionApproved(ctx, *lead.AssignedStaffID, lead.ID, student.ID)
		}
	}

	return student, nil
}

// finalizeLead moves a lead with an approved request into its terminal
// converted state. A lead that is already there passes through untouched,
// so the call is safe on every retry.
func (s *Service) finalizeLead(ctx context.Context, leadID int64) error {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if lead.Stage == domain.StageConverted && lead.ConversionStatus == domain.ConversionApproved {
		return nil
	}
	lead.Stage = domain.StageConverted
	lead.ConversionStatus = domain.ConversionApproved
	return s.leads.Update(ctx, lead)
}

// provisionStudent finds or creates the account + student pair for the
// lead's contact email.
func (s *Service) provisionStudent(ctx context.Context, req *domain.ConversionRequest, lead *domain.Lead) (*domain.Student, error) {
	user, err := s.users.GetByEmail(ctx, lead.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Initial password is random; the student resets it via the
		// account-created notice.
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		user = &domain.User{
			Email:        strings.ToLower(strings.TrimSpace(lead.Email)),
			PasswordHash: string(hash),
			Role:         domain.RoleStudent,
			Name:         lead.Name,
			Phone:        lead.Phone,
			OrgID:        lead.OrgID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	student, err := s.students.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if student != nil {
		// An orphan from a crashed prior run of this same request is
		// adopted; any other student with this email is a conflict.
		if student.ConversionRequestID != nil && *student.ConversionRequestID == req.ID {
			return student, nil
		}
		return nil, ErrStudentExists
	}

	now := time.Now()
	student = &domain.Student{
		UserID:              user.ID,
		OrgID:               lead.OrgID,
		LeadID:              &lead.ID,
		ConversionRequestID: &req.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// provisionRegistrations creates one registration per requested service,
// carrying the lead's assigned staff forward as primary (and active).
func (s *Service) provisionRegistrations(ctx context.Context, lead *domain.Lead, student *domain.Student) error {
	for _, serviceID := range lead.ServiceIDs {
		existing, err := s.regs.GetByStudentService(ctx, student.ID, serviceID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		now := time.Now()
		reg := &domain.ServiceRegistration{
			StudentID: student.ID,
			ServiceID: serviceID,
			OrgID:     lead.OrgID,
			Status:    domain.RegistrationRegistered,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if lead.AssignedStaffID != nil {
			reg.PrimaryStaffID = lead.AssignedStaffID
			reg.ActiveStaffID = lead.AssignedStaffID
		}

		if err := s.regs.Create(ctx, reg); err != nil {
			// A concurrent retry won the insert; fine either way.
			if errors.Is(err, repository.ErrDuplicateRegistration) {
				continue
			}
			return err
		}
	}
	return nil
}

// Reject resolves a pending request negatively. The lead's stage is
// untouched; it stays eligible for a future attempt.
func (s *Service) Reject(ctx context.Context, viewer authz.Viewer, requestID int64, reason string) (*domain.ConversionRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !authz.ResolveOrg(viewer, req.OrgID).IsOrgAuthority {
		return nil, ErrForbidden
	}
	if req.IsResolved() {
		return nil, ErrRequestResolved
	}

	now := time.Now()
	req.Status = domain.RequestRejected
	req.ResolvedBy = &viewer.ID
	req.ResolvedAt = &now
	req.RejectReason = strings.TrimSpace(reason)
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}

	lead, err := s.leads.GetByID(ctx, req.LeadID)
	if err != nil {
		return nil, err
	}
	lead.ConversionRequestID = nil
	lead.ConversionStatus = domain.ConversionRejected
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyConversionRejected(ctx, req.RequestedBy, req.LeadID, req.RejectReason)
	}

	return req, nil
}

// List returns the viewer org's requests, optionally filtered by status.
func (s *Service) List(ctx context.Context, viewer authz.Viewer, status *domain.RequestStatus, limit, offset int) ([]*domain.ConversionRequest, int, error) {
	if !authz.ResolveOrg(viewer, viewer.OrgID).IsOrgAuthority {
		return nil, 0, ErrForbidden
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.requests.ListByOrg(ctx, viewer.OrgID, status, limit, offset)
}
