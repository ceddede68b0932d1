package chat

import (
	"context"
	"testing"

	"educrm/internal/authz"
	"educrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeMessageRepo struct {
	nextID   int64
	messages []*domain.ChatMessage
}

func (f *fakeMessageRepo) Append(ctx context.Context, m *domain.ChatMessage) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageRepo) List(ctx context.Context, threadType domain.ThreadType, threadID int64, limit, offset int) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range f.messages {
		if m.ThreadType == threadType && m.ThreadID == threadID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeLeadRepo struct {
	leads map[int64]*domain.Lead
}

func (f *fakeLeadRepo) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

type fakeRegRepo struct {
	regs map[int64]*domain.ServiceRegistration
}

func (f *fakeRegRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceRegistration, error) {
	r, ok := f.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

type fakeStudentRepo struct {
	students map[int64]*domain.Student
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func i64(v int64) *int64 { return &v }

type fixture struct {
	svc  *Service
	regs *fakeRegRepo
}

func newFixture() *fixture {
	leads := &fakeLeadRepo{leads: map[int64]*domain.Lead{
		1: {ID: 1, OrgID: 10, AssignedStaffID: i64(100), Stage: domain.StageWarm},
	}}
	regs := &fakeRegRepo{regs: map[int64]*domain.ServiceRegistration{
		2: {ID: 2, StudentID: 5, OrgID: 10, PrimaryStaffID: i64(100), ActiveStaffID: i64(100)},
		3: {ID: 3, StudentID: 5, OrgID: 10}, // no staff bound yet
	}}
	students := &fakeStudentRepo{students: map[int64]*domain.Student{
		5: {ID: 5, UserID: 200, OrgID: 10},
	}}
	users := &fakeUserRepo{users: map[int64]*domain.User{
		100: {ID: 100, Name: "Asel K.", Role: domain.RoleCounselor, OrgID: 10},
		200: {ID: 200, Name: "Jane Doe", Role: domain.RoleStudent, OrgID: 10},
	}}
	return &fixture{
		svc:  NewService(&fakeMessageRepo{}, leads, regs, students, users),
		regs: regs,
	}
}

var (
	staff    = authz.Viewer{ID: 100, Role: domain.RoleCounselor, OrgID: 10}
	outsider = authz.Viewer{ID: 101, Role: domain.RoleCounselor, OrgID: 10}
	student  = authz.Viewer{ID: 200, Role: domain.RoleStudent, OrgID: 10}
	admin    = authz.Viewer{ID: 900, Role: domain.RoleOrgAdmin, OrgID: 10}
)

func TestPost_LeadThread(t *testing.T) {
	f := newFixture()

	msg, err := f.svc.Post(context.Background(), staff, domain.ThreadLead, 1, "following up tomorrow")
	assert.NoError(t, err)
	assert.Equal(t, "Asel K.", msg.SenderName)

	_, err = f.svc.Post(context.Background(), outsider, domain.ThreadLead, 1, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPost_RegistrationThread(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Post(context.Background(), staff, domain.ThreadRegistration, 2, "docs look fine")
	assert.NoError(t, err)

	// The student the registration belongs to may participate too.
	msg, err := f.svc.Post(context.Background(), student, domain.ThreadRegistration, 2, "thanks!")
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", msg.SenderName)
}

func TestPost_UnstaffedRegistrationUnavailable(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Post(context.Background(), admin, domain.ThreadRegistration, 3, "hello?")
	assert.ErrorIs(t, err, ErrThreadUnavailable)

	// Binding staff opens the thread.
	f.regs.regs[3].PrimaryStaffID = i64(100)
	f.regs.regs[3].ActiveStaffID = i64(100)
	_, err = f.svc.Post(context.Background(), admin, domain.ThreadRegistration, 3, "hello")
	assert.NoError(t, err)
}

func TestPost_EmptyMessage(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Post(context.Background(), staff, domain.ThreadLead, 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestList(t *testing.T) {
	f := newFixture()

	_, _ = f.svc.Post(context.Background(), staff, domain.ThreadRegistration, 2, "one")
	_, _ = f.svc.Post(context.Background(), student, domain.ThreadRegistration, 2, "two")

	msgs, err := f.svc.List(context.Background(), student, domain.ThreadRegistration, 2, 50, 0)
	assert.NoError(t, err)
	assert.Len(t, msgs, 2)

	_, err = f.svc.List(context.Background(), outsider, domain.ThreadRegistration, 2, 50, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.List(context.Background(), staff, domain.ThreadLead, 404, 50, 0)
	assert.ErrorIs(t, err, ErrThreadNotFound)
}
