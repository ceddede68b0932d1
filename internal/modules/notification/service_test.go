package notification

import (
	"context"
	"testing"

	"educrm/internal/domain"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	created []*domain.Notification
	failing bool
}

func (f *fakeRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.failing {
		return assert.AnError
	}
	n.ID = int64(len(f.created) + 1)
	cp := *n
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, int, error) {
	var out []*domain.Notification
	unread := 0
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if !n.IsRead {
			unread++
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, unread, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, userID, id int64) error {
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) MarkAllRead(ctx context.Context, userID int64) error {
	for _, n := range f.created {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

type fakeUserRepo struct {
	admins map[int64][]*domain.User
}

func (f *fakeUserRepo) ListOrgAdmins(ctx context.Context, orgID int64) ([]*domain.User, error) {
	return f.admins[orgID], nil
}

func newService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	users := &fakeUserRepo{admins: map[int64][]*domain.User{
		10: {
			{ID: 900, Role: domain.RoleOrgAdmin, OrgID: 10},
			{ID: 901, Role: domain.RoleOrgAdmin, OrgID: 10},
		},
	}}
	return NewService(repo, users), repo
}

func TestNotifyLeadAssigned(t *testing.T) {
	svc, repo := newService()

	err := svc.NotifyLeadAssigned(context.Background(), 100, 1)
	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, int64(100), repo.created[0].UserID)
	assert.Equal(t, domain.NotifLeadAssigned, repo.created[0].Type)
}

func TestNotifyConversionRequested_FansOutToAdmins(t *testing.T) {
	svc, repo := newService()

	err := svc.NotifyConversionRequested(context.Background(), 10, 1, 7)
	assert.NoError(t, err)
	assert.Len(t, repo.created, 2)
	assert.Equal(t, int64(900), repo.created[0].UserID)
	assert.Equal(t, int64(901), repo.created[1].UserID)
}

func TestNotifyDocumentUploaded_SkipsPreApproved(t *testing.T) {
	svc, repo := newService()

	rec := &domain.DocumentRecord{ID: 3, DocumentKey: "passport", Version: 1, Status: domain.DocumentApproved}
	err := svc.NotifyDocumentUploaded(context.Background(), 10, rec)
	assert.NoError(t, err)
	assert.Empty(t, repo.created)

	rec.Status = domain.DocumentPending
	err = svc.NotifyDocumentUploaded(context.Background(), 10, rec)
	assert.NoError(t, err)
	assert.Len(t, repo.created, 2)
}

func TestCreateFailureIsReportedNotFatal(t *testing.T) {
	svc, repo := newService()
	repo.failing = true

	err := svc.NotifyAccountCreated(context.Background(), 5)
	assert.Error(t, err)
}

func TestMarkAsRead(t *testing.T) {
	svc, repo := newService()

	_ = svc.NotifyLeadAssigned(context.Background(), 100, 1)
	_ = svc.NotifyLeadAssigned(context.Background(), 100, 2)

	_, unread, _ := svc.GetUserNotifications(context.Background(), 100, 20)
	assert.Equal(t, 2, unread)

	assert.NoError(t, svc.MarkAsRead(context.Background(), 100, repo.created[0].ID))
	_, unread, _ = svc.GetUserNotifications(context.Background(), 100, 20)
	assert.Equal(t, 1, unread)

	assert.NoError(t, svc.MarkAllAsRead(context.Background(), 100))
	_, unread, _ = svc.GetUserNotifications(context.Background(), 100, 20)
	assert.Equal(t, 0, unread)
}
