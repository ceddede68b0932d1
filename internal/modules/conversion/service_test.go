package conversion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"educrm/internal/authz"
	"educrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// In-memory fakes. The approval sequence is stateful across several
// stores, so plain struct fakes read better here than call mocks.

type fakeLeadRepo struct {
	leads          map[int64]*domain.Lead
	failNextUpdate bool
}

func (f *fakeLeadRepo) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, l *domain.Lead) error {
	if f.failNextUpdate {
		f.failNextUpdate = false
		return errors.New("connection reset")
	}
	cp := *l
	f.leads[l.ID] = &cp
	return nil
}

type fakeRequestRepo struct {
	nextID   int64
	requests map[int64]*domain.ConversionRequest
}

func (f *fakeRequestRepo) Create(ctx context.Context, c *domain.ConversionRequest) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.requests[c.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*domain.ConversionRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) GetPendingByLead(ctx context.Context, leadID int64) (*domain.ConversionRequest, error) {
	for _, r := range f.requests {
		if r.LeadID == leadID && r.Status == domain.RequestPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, c *domain.ConversionRequest) error {
	cp := *c
	f.requests[c.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) ListByOrg(ctx context.Context, orgID int64, status *domain.RequestStatus, limit, offset int) ([]*domain.ConversionRequest, int, error) {
	var out []*domain.ConversionRequest
	for _, r := range f.requests {
		if r.OrgID != orgID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

type fakeStudentRepo struct {
	nextID   int64
	students map[int64]*domain.Student
}

func (f *fakeStudentRepo) Create(ctx context.Context, s *domain.Student) error {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Student, error) {
	for _, s := range f.students {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeRegRepo struct {
	nextID int64
	regs   map[int64]*domain.ServiceRegistration
}

func (f *fakeRegRepo) Create(ctx context.Context, reg *domain.ServiceRegistration) error {
	f.nextID++
	reg.ID = f.nextID
	cp := *reg
	f.regs[reg.ID] = &cp
	return nil
}

func (f *fakeRegRepo) GetByStudentService(ctx context.Context, studentID, serviceID int64) (*domain.ServiceRegistration, error) {
	for _, r := range f.regs {
		if r.StudentID == studentID && r.ServiceID == serviceID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

type fixture struct {
	svc      *Service
	leads    *fakeLeadRepo
	requests *fakeRequestRepo
	users    *fakeUserRepo
	students *fakeStudentRepo
	regs     *fakeRegRepo
}

func i64(v int64) *int64 { return &v }

func newFixture() *fixture {
	f := &fixture{
		leads:    &fakeLeadRepo{leads: map[int64]*domain.Lead{}},
		requests: &fakeRequestRepo{requests: map[int64]*domain.ConversionRequest{}},
		users:    &fakeUserRepo{users: map[int64]*domain.User{}},
		students: &fakeStudentRepo{students: map[int64]*domain.Student{}},
		regs:     &fakeRegRepo{regs: map[int64]*domain.ServiceRegistration{}},
	}
	f.svc = NewService(f.leads, f.requests, f.users, f.students, f.regs, nil)
	return f
}

func (f *fixture) seedLead() *domain.Lead {
	l := &domain.Lead{
		ID: 1, OrgID: 10,
		Name: "Jane Doe", Email: "jane@example.com", Phone: "555",
		ServiceIDs:       []int64{3},
		Stage:            domain.StageNew,
		ConversionStatus: domain.ConversionNone,
		AssignedStaffID:  i64(100),
	}
	f.leads.leads[1] = l
	return l
}

var (
	owner    = authz.Viewer{ID: 100, Role: domain.RoleCounselor, OrgID: 10}
	stranger = authz.Viewer{ID: 101, Role: domain.RoleCounselor, OrgID: 10}
	admin    = authz.Viewer{ID: 900, Role: domain.RoleOrgAdmin, OrgID: 10}
)

func TestRequest(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, err := f.svc.Request(context.Background(), owner, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.RequestPending, req.Status)

	lead, _ := f.leads.GetByID(context.Background(), 1)
	assert.Equal(t, domain.ConversionPending, lead.ConversionStatus)
	assert.Equal(t, req.ID, *lead.ConversionRequestID)
}

func TestRequest_NonOwnerForbidden(t *testing.T) {
	f := newFixture()
	f.seedLead()

	_, err := f.svc.Request(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRequest_MissingLeadSameForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Request(context.Background(), stranger, 404)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRequest_SecondPendingConflicts(t *testing.T) {
	f := newFixture()
	f.seedLead()

	_, err := f.svc.Request(context.Background(), owner, 1)
	assert.NoError(t, err)

	_, err = f.svc.Request(context.Background(), owner, 1)
	assert.ErrorIs(t, err, ErrRequestPending)
}

func TestApprove(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	student, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.NoError(t, err)
	assert.NotZero(t, student.ID)

	// Account provisioned for the lead's email with role student.
	u, _ := f.users.GetByEmail(context.Background(), "jane@example.com")
	assert.NotNil(t, u)
	assert.Equal(t, domain.RoleStudent, u.Role)

	// Registration carries the lead's staff forward as primary + active.
	reg, _ := f.regs.GetByStudentService(context.Background(), student.ID, 3)
	assert.NotNil(t, reg)
	assert.Equal(t, int64(100), *reg.PrimaryStaffID)
	assert.Equal(t, int64(100), *reg.ActiveStaffID)

	lead, _ := f.leads.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StageConverted, lead.Stage)
	assert.Equal(t, domain.ConversionApproved, lead.ConversionStatus)

	resolved, _ := f.requests.GetByID(context.Background(), req.ID)
	assert.Equal(t, domain.RequestApproved, resolved.Status)
	assert.Equal(t, student.ID, *resolved.StudentID)
}

func TestApprove_RetriedCallReturnsSameStudent(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	first, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.NoError(t, err)

	second, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.students.students, 1)
}

func TestApprove_RetryFinishesLeadAfterPartialFailure(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	// The run dies between resolving the request and moving the lead.
	f.leads.failNextUpdate = true
	_, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.Error(t, err)

	resolved, _ := f.requests.GetByID(context.Background(), req.ID)
	assert.Equal(t, domain.RequestApproved, resolved.Status)
	lead, _ := f.leads.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StageNew, lead.Stage)

	// The retry hands back the student and finishes the lead transition.
	student, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, *resolved.StudentID, student.ID)

	lead, _ = f.leads.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StageConverted, lead.Stage)
	assert.Equal(t, domain.ConversionApproved, lead.ConversionStatus)

	// A converted lead takes no further requests.
	_, err = f.svc.Request(context.Background(), owner, 1)
	assert.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestApprove_AdoptsOrphanFromCrashedRun(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	// Simulate a prior run that crashed after creating user + student
	// but before resolving the request.
	u := &domain.User{Email: "jane@example.com", Role: domain.RoleStudent, OrgID: 10}
	_ = f.users.Create(context.Background(), u)
	orphan := &domain.Student{UserID: u.ID, OrgID: 10, ConversionRequestID: &req.ID}
	_ = f.students.Create(context.Background(), orphan)

	student, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, orphan.ID, student.ID)
	assert.Len(t, f.students.students, 1)
}

func TestApprove_ExistingUnrelatedStudentConflicts(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	// Same email already converted through some other path.
	u := &domain.User{Email: "jane@example.com", Role: domain.RoleStudent, OrgID: 10}
	_ = f.users.Create(context.Background(), u)
	otherReq := int64(999)
	_ = f.students.Create(context.Background(), &domain.Student{UserID: u.ID, OrgID: 10, ConversionRequestID: &otherReq})

	_, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.ErrorIs(t, err, ErrStudentExists)
}

func TestApprove_CounselorForbidden(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	_, err := f.svc.Approve(context.Background(), owner, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReject(t *testing.T) {
	f := newFixture()
	lead := f.seedLead()
	lead.Stage = domain.StageWarm
	f.leads.leads[1] = lead

	req, _ := f.svc.Request(context.Background(), owner, 1)

	resolved, err := f.svc.Reject(context.Background(), admin, req.ID, "incomplete info")
	assert.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, resolved.Status)
	assert.Equal(t, "incomplete info", resolved.RejectReason)

	// Stage untouched, pointer cleared, lead eligible again.
	got, _ := f.leads.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StageWarm, got.Stage)
	assert.Equal(t, domain.ConversionRejected, got.ConversionStatus)
	assert.Nil(t, got.ConversionRequestID)

	second, err := f.svc.Request(context.Background(), owner, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, req.ID, second.ID)
}

func TestReject_ReasonRequired(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)

	_, err := f.svc.Reject(context.Background(), admin, req.ID, "  ")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestReject_ResolvedRequestImmutable(t *testing.T) {
	f := newFixture()
	f.seedLead()

	req, _ := f.svc.Request(context.Background(), owner, 1)
	_, err := f.svc.Approve(context.Background(), admin, req.ID)
	assert.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), admin, req.ID, "too late")
	assert.ErrorIs(t, err, ErrRequestResolved)
}
