package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/payalife/lms-backend/internal/gateway"
	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// In-memory fakes for the repository interfaces the service tests exercise.

type fakeOTPCodes struct {
	mu    sync.Mutex
	codes []models.OTPCode
}

func (f *fakeOTPCodes) Create(_ context.Context, phone, codeHash string, expiresAt time.Time) (models.OTPCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.OTPCode{ID: uuid.NewString(), Phone: phone, CodeHash: codeHash, CreatedAt: time.Now(), ExpiresAt: expiresAt}
	f.codes = append(f.codes, c)
	return c, nil
}

func (f *fakeOTPCodes) Current(_ context.Context, phone string, now time.Time, limit int) ([]models.OTPCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OTPCode
	for _, c := range f.codes {
		if c.Phone == phone && !c.Used && now.Before(c.ExpiresAt) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOTPCodes) MarkUsed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.codes {
		if f.codes[i].ID == id && !f.codes[i].Used {
			f.codes[i].Used = true
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeOTPCodes) CountSince(_ context.Context, phone string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.codes {
		if c.Phone == phone && c.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeOTPCodes) LastCreatedAt(_ context.Context, phone string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last time.Time
	found := false
	for _, c := range f.codes {
		if c.Phone == phone && c.CreatedAt.After(last) {
			last, found = c.CreatedAt, true
		}
	}
	return last, found, nil
}

// backdate shifts every stored code's CreatedAt for cooldown tests.
func (f *fakeOTPCodes) backdate(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.codes {
		f.codes[i].CreatedAt = f.codes[i].CreatedAt.Add(-d)
	}
}

type capturingSender struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	bodys []string
}

func (s *capturingSender) SendText(_ context.Context, phone, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("provider unavailable")
	}
	s.sent = append(s.sent, phone)
	s.bodys = append(s.bodys, body)
	return nil
}

type fakeUsers struct {
	mu      sync.Mutex
	byPhone map[string]models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byPhone: map[string]models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byPhone[u.Phone]; ok {
		return models.User{}, repo.ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	f.byPhone[u.Phone] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byPhone {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return models.User{}, repo.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byPhone[u.Phone] = u
	return u, nil
}

func (f *fakeUsers) SetRole(_ context.Context, id string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for phone, u := range f.byPhone {
		if u.ID == id {
			u.Role = role
			f.byPhone[phone] = u
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byPhone), nil
}

type fakeSessions struct {
	mu   sync.Mutex
	rows map[string]models.Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{rows: map[string]models.Session{}} }

func (f *fakeSessions) Create(_ context.Context, userID string, ttl time.Duration) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.Session{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(ttl)}
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.rows[id]; ok {
		return s, nil
	}
	return models.Session{}, repo.ErrNotFound
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeTransactions struct {
	mu          sync.Mutex
	rows        map[string]models.Transaction
	enrollments *fakeEnrollments
}

func newFakeTransactions(enr *fakeEnrollments) *fakeTransactions {
	return &fakeTransactions{rows: map[string]models.Transaction{}, enrollments: enr}
}

func (f *fakeTransactions) Create(_ context.Context, t models.Transaction) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Authority == t.Authority {
			return models.Transaction{}, repo.ErrDuplicate
		}
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	f.rows[t.ID] = t
	return t, nil
}

func (f *fakeTransactions) GetPendingByAuthority(_ context.Context, authority string) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.Authority == authority && t.Status == models.TxnPending {
			return t, nil
		}
	}
	return models.Transaction{}, repo.ErrNotFound
}

func (f *fakeTransactions) MarkFailed(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.Status != models.TxnPending {
		return false, nil
	}
	t.Status = models.TxnFailed
	f.rows[id] = t
	return true, nil
}

func (f *fakeTransactions) CompleteAndEnroll(_ context.Context, id string, refID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.Status != models.TxnPending {
		return false, nil
	}
	t.Status = models.TxnCompleted
	t.RefID = &refID
	f.rows[id] = t
	if t.CourseID != nil {
		// Mirrors ON CONFLICT DO NOTHING on the enrollments unique index:
		// an existing enrollment never blocks the COMPLETED flip.
		if exists, _ := f.enrollments.Exists(context.Background(), t.UserID, *t.CourseID); !exists {
			f.enrollments.add(models.Enrollment{
				UserID:    t.UserID,
				CourseID:  *t.CourseID,
				PricePaid: t.Amount,
				Status:    models.EnrollmentCompleted,
			})
		}
	}
	return true, nil
}

func (f *fakeTransactions) SumCompleted(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, t := range f.rows {
		if t.Status == models.TxnCompleted {
			sum += t.Amount
		}
	}
	return sum, nil
}

func (f *fakeTransactions) FailStalePending(_ context.Context, olderThan time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, t := range f.rows {
		if t.Status == models.TxnPending && t.CreatedAt.Before(olderThan) {
			t.Status = models.TxnFailed
			f.rows[id] = t
			n++
		}
	}
	return n, nil
}

func (f *fakeTransactions) WithTx(context.Context, func(pgx.Tx) error) error {
	panic("not used in tests")
}

func (f *fakeTransactions) get(id string) models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

type fakeEnrollments struct {
	mu   sync.Mutex
	rows []models.Enrollment
}

func (f *fakeEnrollments) add(e models.Enrollment) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.PurchasedAt = time.Now()
	f.rows = append(f.rows, e)
}

func (f *fakeEnrollments) Create(_ context.Context, e models.Enrollment) (models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == e.UserID && r.CourseID == e.CourseID {
			return models.Enrollment{}, repo.ErrDuplicate
		}
	}
	e.ID = uuid.NewString()
	e.PurchasedAt = time.Now()
	f.rows = append(f.rows, e)
	return e, nil
}

func (f *fakeEnrollments) Exists(_ context.Context, userID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollments) ListByUser(_ context.Context, userID string) ([]models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Enrollment
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) ListByCourse(_ context.Context, courseID string) ([]models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Enrollment
	for _, r := range f.rows {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

type fakeCourses struct {
	mu   sync.Mutex
	rows map[string]models.Course
}

func newFakeCourses() *fakeCourses { return &fakeCourses{rows: map[string]models.Course{}} }

func (f *fakeCourses) Create(_ context.Context, c models.Course) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCourses) Update(_ context.Context, c models.Course) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[c.ID]; !ok {
		return models.Course{}, repo.ErrNotFound
	}
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCourses) GetByID(_ context.Context, id string) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[id]; ok {
		return c, nil
	}
	return models.Course{}, repo.ErrNotFound
}

func (f *fakeCourses) GetBySlug(_ context.Context, slug string) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Course{}, repo.ErrNotFound
}

func (f *fakeCourses) List(_ context.Context, filter repo.CourseFilter) ([]models.Course, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Course
	for _, c := range f.rows {
		if filter.PublishedOnly && !c.IsPublished {
			continue
		}
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		if filter.CategoryID != "" && c.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, c)
	}
	total := len(out)
	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeCourses) SetPublished(_ context.Context, id string, published bool) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return models.Course{}, repo.ErrNotFound
	}
	c.IsPublished = published
	f.rows[id] = c
	return c, nil
}

func (f *fakeCourses) CountPublished(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.rows {
		if c.IsPublished {
			n++
		}
	}
	return n, nil
}

type fakeCategories struct {
	mu   sync.Mutex
	rows []models.Category
}

func (f *fakeCategories) Create(_ context.Context, title, slug string) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Slug == slug {
			return models.Category{}, repo.ErrDuplicate
		}
	}
	c := models.Category{ID: uuid.NewString(), Title: title, Slug: slug, CreatedAt: time.Now()}
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *fakeCategories) Update(_ context.Context, id, title string) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.rows {
		if c.ID == id {
			f.rows[i].Title = title
			return f.rows[i], nil
		}
	}
	return models.Category{}, repo.ErrNotFound
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Category(nil), f.rows...), nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, repo.ErrNotFound
}

type fakeGateway struct {
	mu           sync.Mutex
	authority    string
	requestErr   error
	verifyErr    error
	refID        int64
	verifyCalls  int
	requestCalls int
}

func (g *fakeGateway) RequestPayment(_ context.Context, amount int64, description, callbackURL string) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requestCalls++
	if g.requestErr != nil {
		return "", "", g.requestErr
	}
	return g.authority, "https://gateway.test/start/" + g.authority, nil
}

func (g *fakeGateway) VerifyPayment(_ context.Context, authority string, amount int64) (gateway.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.verifyErr != nil {
		return gateway.VerifyResult{}, g.verifyErr
	}
	return gateway.VerifyResult{RefID: g.refID}, nil
}

type fakeLessons struct {
	mu   sync.Mutex
	rows map[string]models.Lesson
}

func newFakeLessons() *fakeLessons { return &fakeLessons{rows: map[string]models.Lesson{}} }

func (f *fakeLessons) Create(_ context.Context, l models.Lesson) (models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	f.rows[l.ID] = l
	return l, nil
}

func (f *fakeLessons) GetByID(_ context.Context, id string) (models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.rows[id]; ok {
		return l, nil
	}
	return models.Lesson{}, repo.ErrNotFound
}

func (f *fakeLessons) ListByCourse(_ context.Context, courseID string) ([]models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Lesson
	for _, l := range f.rows {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

type fakeProgress struct {
	mu   sync.Mutex
	rows map[string]models.Progress // userID+lessonID
}

func newFakeProgress() *fakeProgress { return &fakeProgress{rows: map[string]models.Progress{}} }

func (f *fakeProgress) Upsert(_ context.Context, p models.Progress) (models.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := p.UserID + "/" + p.LessonID
	if existing, ok := f.rows[key]; ok {
		p.ID = existing.ID
	} else {
		p.ID = uuid.NewString()
	}
	if p.IsCompleted {
		now := time.Now()
		p.CompletedAt = &now
	}
	f.rows[key] = p
	return p, nil
}

func (f *fakeProgress) CountCompleted(_ context.Context, userID string, lessonIDs []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range lessonIDs {
		if p, ok := f.rows[userID+"/"+id]; ok && p.IsCompleted {
			n++
		}
	}
	return n, nil
}

type fakeCertificates struct {
	mu   sync.Mutex
	rows []models.Certificate
}

func (f *fakeCertificates) Create(_ context.Context, c models.Certificate) (models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == c.UserID && r.CourseID == c.CourseID {
			return models.Certificate{}, repo.ErrDuplicate
		}
	}
	c.ID = uuid.NewString()
	c.IssuedAt = time.Now()
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *fakeCertificates) GetByID(_ context.Context, id string) (models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Certificate{}, repo.ErrNotFound
}

func (f *fakeCertificates) Exists(_ context.Context, userID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCertificates) ListByUser(_ context.Context, userID string) ([]models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Certificate
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeInstructorRequests struct {
	mu   sync.Mutex
	rows []models.InstructorRequest
}

func (f *fakeInstructorRequests) Create(_ context.Context, userID string) (models.InstructorRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := models.InstructorRequest{ID: uuid.NewString(), UserID: userID, Status: models.RequestPending, CreatedAt: time.Now()}
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeInstructorRequests) GetByID(_ context.Context, id string) (models.InstructorRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return models.InstructorRequest{}, repo.ErrNotFound
}

func (f *fakeInstructorRequests) HasPending(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInstructorRequests) List(_ context.Context, status models.RequestStatus) ([]models.InstructorRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InstructorRequest
	for _, r := range f.rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeInstructorRequests) SetStatus(_ context.Context, id string, status models.RequestStatus, adminMessage *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id {
			f.rows[i].Status = status
			f.rows[i].AdminMessage = adminMessage
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeInstructorRequests) CountPending(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.Status == models.RequestPending {
			n++
		}
	}
	return n, nil
}
