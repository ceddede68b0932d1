package assignment

import (
	"context"
	"errors"

	"educrm/internal/authz"
	"educrm/internal/domain"

	"gorm.io/gorm"
)

// Service owns the staff bindings of leads and service registrations.
// It only mutates bindings; who "owns" an entity after a mutation is
// always recomputed by the authz resolver, never here.
type Service struct {
	leads  LeadRepository
	regs   RegistrationRepository
	users  UserRepository
	notifs NotificationSender
}

func NewService(leads LeadRepository, regs RegistrationRepository, users UserRepository, notifs NotificationSender) *Service {
	return &Service{
		leads:  leads,
		regs:   regs,
		users:  users,
		notifs: notifs,
	}
}

// lookupStaff resolves a staff id and checks tier + tenant.
func (s *Service) lookupStaff(ctx context.Context, staffID, orgID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if !u.Role.IsStaff() {
		return nil, ErrNotStaff
	}
	if u.Role != domain.RoleSuperAdmin && u.OrgID != orgID {
		return nil, ErrWrongOrg
	}
	return u, nil
}

// AssignLead binds a single staff member to a lead. The lead side has no
// primary/secondary split.
func (s *Service) AssignLead(ctx context.Context, viewer authz.Viewer, leadID, staffID int64) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if !authz.ResolveLead(viewer, lead).IsOrgAuthority {
		return nil, ErrForbidden
	}
	if lead.IsConverted() {
		return nil, ErrLeadConverted
	}

	if _, err := s.lookupStaff(ctx, staffID, lead.OrgID); err != nil {
		return nil, err
	}

	lead.AssignedStaffID = &staffID
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyLeadAssigned(ctx, staffID, lead.ID)
	}

	return lead, nil
}

// UnassignLead clears a lead's staff binding.
func (s *Service) UnassignLead(ctx context.Context, viewer authz.Viewer, leadID int64) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if !authz.ResolveLead(viewer, lead).IsOrgAuthority {
		return nil, ErrForbidden
	}
	if lead.IsConverted() {
		return nil, ErrLeadConverted
	}

	lead.AssignedStaffID = nil
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// AssignRegistration sets whichever of primary/secondary is supplied.
// When active is unset and a primary arrives, active defaults to primary.
func (s *Service) AssignRegistration(ctx context.Context, viewer authz.Viewer, regID int64, primaryID, secondaryID *int64) (*domain.ServiceRegistration, error) {
	if primaryID == nil && secondaryID == nil {
		return nil, ErrNoStaffGiven
	}

	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	if !authz.ResolveRegistration(viewer, reg).IsOrgAuthority {
		return nil, ErrForbidden
	}

	if primaryID != nil {
		if _, err := s.lookupStaff(ctx, *primaryID, reg.OrgID); err != nil {
			return nil, err
		}
		reg.PrimaryStaffID = primaryID
		if reg.ActiveStaffID == nil {
			reg.ActiveStaffID = primaryID
		}
	}
	if secondaryID != nil {
		if _, err := s.lookupStaff(ctx, *secondaryID, reg.OrgID); err != nil {
			return nil, err
		}
		reg.SecondaryStaffID = secondaryID
	}

	if err := s.regs.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// SwitchActive hot-swaps operational ownership to staffID, which must be
// the current primary or secondary.
func (s *Service) SwitchActive(ctx context.Context, viewer authz.Viewer, regID, staffID int64) (*domain.ServiceRegistration, error) {
	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	if !authz.ResolveRegistration(viewer, reg).IsOrgAuthority {
		return nil, ErrForbidden
	}

	isPrimary := reg.PrimaryStaffID != nil && *reg.PrimaryStaffID == staffID
	isSecondary := reg.SecondaryStaffID != nil && *reg.SecondaryStaffID == staffID
	if !isPrimary && !isSecondary {
		return nil, ErrNotPrimaryOrSecondary
	}

	reg.ActiveStaffID = &staffID
	if err := s.regs.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// UnassignRegistration clears primary, secondary and active together.
func (s *Service) UnassignRegistration(ctx context.Context, viewer authz.Viewer, regID int64) (*domain.ServiceRegistration, error) {
	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	if !authz.ResolveRegistration(viewer, reg).IsOrgAuthority {
		return nil, ErrForbidden
	}

	reg.PrimaryStaffID = nil
	reg.SecondaryStaffID = nil
	reg.ActiveStaffID = nil
	if err := s.regs.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}
