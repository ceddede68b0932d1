package document

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"educrm/internal/authz"
	"educrm/internal/domain"

	"gorm.io/gorm"
)

// Service is the versioned review engine behind both document catalogs.
// Slot semantics come from the registry in domain: single-file slots are
// replaced in place, multi-file slots accumulate independent records.
type Service struct {
	docs     Repository
	regs     RegistrationRepository
	students StudentRepository
	store    FileStore
	notifs   NotificationSender

	mu        sync.Mutex
	slotLocks map[string]*sync.Mutex
}

func NewService(
	docs Repository,
	regs RegistrationRepository,
	students StudentRepository,
	store FileStore,
	notifs NotificationSender,
) *Service {
	return &Service{
		docs:      docs,
		regs:      regs,
		students:  students,
		store:     store,
		notifs:    notifs,
		slotLocks: make(map[string]*sync.Mutex),
	}
}

// slotLock returns the mutex serializing replacements of one slot.
// Two concurrent uploads to the same single-file slot would otherwise
// race on which old file gets deleted.
func (s *Service) slotLock(ownerType domain.DocumentOwnerType, ownerID int64, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := fmt.Sprintf("%s:%d:%s", ownerType, ownerID, key)
	mu, ok := s.slotLocks[k]
	if !ok {
		mu = &sync.Mutex{}
		s.slotLocks[k] = mu
	}
	return mu
}

// resolveOwner loads the catalog owner and computes the viewer's access
// to it. For registration catalogs the student the registration belongs
// to counts as an owner alongside the active staff.
func (s *Service) resolveOwner(ctx context.Context, viewer authz.Viewer, ownerType domain.DocumentOwnerType, ownerID int64) (authz.Access, int64, error) {
	switch ownerType {
	case domain.DocumentOwnerRegistration:
		reg, err := s.regs.GetByID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return authz.Access{}, 0, ErrOwnerNotFound
			}
			return authz.Access{}, 0, err
		}
		access := authz.ResolveRegistration(viewer, reg)
		if !access.IsOwner && viewer.Role == domain.RoleStudent {
			student, err := s.students.GetByID(ctx, reg.StudentID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return authz.Access{}, 0, err
			}
			if student != nil && student.UserID == viewer.ID {
				access.IsOwner = true
			}
		}
		return access, reg.OrgID, nil
	case domain.DocumentOwnerOrganization:
		return authz.ResolveOrg(viewer, ownerID), ownerID, nil
	default:
		return authz.Access{}, 0, ErrUnknownSlot
	}
}

func (s *Service) Upload(ctx context.Context, viewer authz.Viewer, ownerType domain.DocumentOwnerType, ownerID int64, key string, fileHeader *multipart.FileHeader) (*domain.DocumentRecord, error) {
	slot, ok := domain.FindDocumentSlot(ownerType, key)
	if !ok {
		return nil, ErrUnknownSlot
	}

	access, orgID, err := s.resolveOwner(ctx, viewer, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner && !access.IsOrgAuthority {
		return nil, ErrForbidden
	}

	if !slot.Multiple {
		mu := s.slotLock(ownerType, ownerID, key)
		mu.Lock()
		defer mu.Unlock()
	}

	stored, err := s.store.Save(fileHeader)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := domain.DocumentPending
	var reviewedBy *int64
	var reviewedAt *time.Time
	if access.IsOrgAuthority {
		// Reviewer uploads carry their own approval.
		status = domain.DocumentApproved
		reviewedBy = &viewer.ID
		reviewedAt = &now
	}

	if !slot.Multiple {
		existing, err := s.docs.GetBySlot(ctx, ownerType, ownerID, key)
		if err != nil {
			_ = s.store.Remove(stored.Path)
			return nil, err
		}
		if existing != nil {
			oldPath := existing.FilePath
			existing.Version++
			existing.Status = status
			existing.FileName = stored.Name
			existing.FilePath = stored.Path
			existing.FileURL = stored.URL
			existing.MimeType = stored.MimeType
			existing.Size = stored.Size
			existing.UploadedBy = viewer.ID
			existing.UploaderRole = viewer.Role
			existing.ReviewedBy = reviewedBy
			existing.ReviewedAt = reviewedAt
			existing.UpdatedAt = now
			if err := s.docs.Update(ctx, existing); err != nil {
				_ = s.store.Remove(stored.Path)
				return nil, err
			}
			// Old file goes only after the new record is durable.
			_ = s.store.Remove(oldPath)

			if s.notifs != nil {
				_ = s.notifs.NotifyDocumentUploaded(ctx, orgID, existing)
			}
			return existing, nil
		}
	}

	rec := &domain.DocumentRecord{
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		DocumentKey:  key,
		Version:      1,
		Status:       status,
		FileName:     stored.Name,
		FilePath:     stored.Path,
		FileURL:      stored.URL,
		MimeType:     stored.MimeType,
		Size:         stored.Size,
		UploadedBy:   viewer.ID,
		UploaderRole: viewer.Role,
		ReviewedBy:   reviewedBy,
		ReviewedAt:   reviewedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.docs.Create(ctx, rec); err != nil {
		_ = s.store.Remove(stored.Path)
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyDocumentUploaded(ctx, orgID, rec)
	}
	return rec, nil
}

// Approve marks a pending record approved. Approving an already approved
// record succeeds without touching it.
func (s *Service) Approve(ctx context.Context, viewer authz.Viewer, recordID int64) (*domain.DocumentRecord, error) {
	rec, orgID, err := s.loadRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !authz.ResolveOrg(viewer, orgID).IsOrgAuthority {
		return nil, ErrForbidden
	}

	if rec.Status == domain.DocumentApproved {
		return rec, nil
	}

	now := time.Now()
	rec.Status = domain.DocumentApproved
	rec.ReviewedBy = &viewer.ID
	rec.ReviewedAt = &now
	rec.UpdatedAt = now
	if err := s.docs.Update(ctx, rec); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyDocumentApproved(ctx, rec.UploadedBy, rec)
	}
	return rec, nil
}

// Reject removes the record and its file. There is no rejected state to
// query afterwards; the next upload to the slot starts at version 1.
func (s *Service) Reject(ctx context.Context, viewer authz.Viewer, recordID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}

	rec, orgID, err := s.loadRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if !authz.ResolveOrg(viewer, orgID).IsOrgAuthority {
		return ErrForbidden
	}

	// Record first, file second. A failed file removal leaves an orphaned
	// file on disk, never a record pointing at nothing.
	if err := s.docs.Delete(ctx, rec.ID); err != nil {
		return err
	}
	_ = s.store.Remove(rec.FilePath)

	if s.notifs != nil {
		_ = s.notifs.NotifyDocumentRejected(ctx, rec.UploadedBy, rec.DocumentKey, strings.TrimSpace(reason))
	}
	return nil
}

// Delete hard-removes a record and its file regardless of status.
func (s *Service) Delete(ctx context.Context, viewer authz.Viewer, recordID int64) error {
	rec, orgID, err := s.loadRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if !authz.ResolveOrg(viewer, orgID).IsOrgAuthority {
		return ErrForbidden
	}

	if err := s.docs.Delete(ctx, rec.ID); err != nil {
		return err
	}
	_ = s.store.Remove(rec.FilePath)
	return nil
}

func (s *Service) List(ctx context.Context, viewer authz.Viewer, ownerType domain.DocumentOwnerType, ownerID int64) ([]*domain.DocumentRecord, error) {
	access, orgID, err := s.resolveOwner(ctx, viewer, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	// Org catalog documents are readable by anyone in the org.
	sameOrgRead := ownerType == domain.DocumentOwnerOrganization && viewer.OrgID == orgID
	if !access.IsOwner && !access.IsOrgAuthority && !sameOrgRead {
		return nil, ErrForbidden
	}

	return s.docs.ListByOwner(ctx, ownerType, ownerID)
}

func (s *Service) loadRecord(ctx context.Context, recordID int64) (*domain.DocumentRecord, int64, error) {
	rec, err := s.docs.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrRecordNotFound
		}
		return nil, 0, err
	}

	orgID := rec.OwnerID
	if rec.OwnerType == domain.DocumentOwnerRegistration {
		reg, err := s.regs.GetByID(ctx, rec.OwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrOwnerNotFound
			}
			return nil, 0, err
		}
		orgID = reg.OrgID
	}
	return rec, orgID, nil
}
