package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"educrm/internal/authz"
	"educrm/internal/domain"
	"educrm/internal/repository"

	"gorm.io/gorm"
)

// Service owns a lead's pipeline stage and its note trail. The converted
// stage is never set here; only the conversion workflow reaches it.
type Service struct {
	repo     Repository
	services ServiceCatalog
	orgs     OrganizationRepository
	users    UserRepository
}

func NewService(repo Repository, services ServiceCatalog, orgs OrganizationRepository, users UserRepository) *Service {
	return &Service{
		repo:     repo,
		services: services,
		orgs:     orgs,
		users:    users,
	}
}

// Submit creates a lead from the public intake form. Re-submitting with
// an email that already has an open lead returns that lead instead of
// creating a duplicate.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*domain.Lead, error) {
	if _, err := s.orgs.GetByID(ctx, req.OrgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	for _, id := range req.ServiceIDs {
		if _, err := s.services.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownService
			}
			return nil, err
		}
	}

	existing, err := s.repo.GetOpenByEmail(ctx, req.OrgID, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	l := &domain.Lead{
		OrgID:            req.OrgID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Locality:         req.Locality,
		ServiceIDs:       req.ServiceIDs,
		Stage:            domain.StageNew,
		ConversionStatus: domain.ConversionNone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetByID returns a lead if the viewer may see it. A counselor probing a
// lead they do not own gets ErrForbidden whether or not the id exists.
func (s *Service) GetByID(ctx context.Context, viewer authz.Viewer, id int64) (*domain.Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if viewer.Role == domain.RoleCounselor {
				return nil, ErrForbidden
			}
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	a := authz.ResolveLead(viewer, l)
	if !a.IsOwner && !a.IsOrgAuthority {
		return nil, ErrForbidden
	}
	return l, nil
}

// List returns leads visible to the viewer. Counselors see only their own.
func (s *Service) List(ctx context.Context, viewer authz.Viewer, stage *domain.Stage, limit, offset int) ([]*domain.Lead, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	f := repository.LeadFilter{OrgID: viewer.OrgID, Stage: stage}
	if viewer.Role == domain.RoleCounselor {
		f.AssignedStaffID = &viewer.ID
	}
	return s.repo.List(ctx, f, limit, offset)
}

// SetStage moves a lead to a directly settable stage. Converted is
// rejected here always; terminal leads reject everything.
func (s *Service) SetStage(ctx context.Context, viewer authz.Viewer, id int64, stage domain.Stage) (*domain.Lead, error) {
	switch stage {
	case domain.StageNew, domain.StageHot, domain.StageWarm, domain.StageCold, domain.StageClosed:
	case domain.StageConverted:
		return nil, ErrDirectConvert
	default:
		return nil, ErrInvalidStage
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if viewer.Role == domain.RoleCounselor {
				return nil, ErrForbidden
			}
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	a := authz.ResolveLead(viewer, l)
	if !a.IsOwner && !a.IsOrgAuthority {
		return nil, ErrForbidden
	}

	if l.Stage.IsTerminal() {
		return nil, ErrStageTerminal
	}

	l.Stage = stage
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AddNote appends an immutable note with an author snapshot.
func (s *Service) AddNote(ctx context.Context, viewer authz.Viewer, leadID int64, text string) (*domain.LeadNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyNote
	}

	l, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if viewer.Role == domain.RoleCounselor {
				return nil, ErrForbidden
			}
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	a := authz.ResolveLead(viewer, l)
	if !a.IsOwner && !a.IsOrgAuthority {
		return nil, ErrForbidden
	}

	authorName := ""
	if u, err := s.users.GetByID(ctx, viewer.ID); err == nil {
		authorName = u.Name
	}

	n := &domain.LeadNote{
		LeadID:     leadID,
		AuthorID:   viewer.ID,
		AuthorName: authorName,
		Text:       strings.TrimSpace(text),
		CreatedAt:  time.Now(),
	}
	if err := s.repo.AddNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListNotes(ctx context.Context, viewer authz.Viewer, leadID int64) ([]*domain.LeadNote, error) {
	l, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if viewer.Role == domain.RoleCounselor {
				return nil, ErrForbidden
			}
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	a := authz.ResolveLead(viewer, l)
	if !a.IsOwner && !a.IsOrgAuthority {
		return nil, ErrForbidden
	}
	return s.repo.ListNotes(ctx, leadID)
}

// Delete removes the person outright. Coarser than rejecting a
// conversion request; org authority only.
func (s *Service) Delete(ctx context.Context, viewer authz.Viewer, id int64) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeadNotFound
		}
		return err
	}

	if !authz.ResolveLead(viewer, l).IsOrgAuthority {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
