package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/payalife/lms-backend/internal/models"
)

// ErrNotFound is returned by lookups for absent rows so callers do not have
// to know about pgx.ErrNoRows.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate")

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByPhone(ctx context.Context, phone string) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) error
	Count(ctx context.Context) (int, error)
}

type Sessions interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (models.Session, error)
	Get(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
}

type OTPCodes interface {
	Create(ctx context.Context, phone, codeHash string, expiresAt time.Time) (models.OTPCode, error)
	// Current returns unused, unexpired codes for the phone, newest first.
	Current(ctx context.Context, phone string, now time.Time, limit int) ([]models.OTPCode, error)
	MarkUsed(ctx context.Context, id string) error
	CountSince(ctx context.Context, phone string, since time.Time) (int, error)
	LastCreatedAt(ctx context.Context, phone string) (time.Time, bool, error)
}

type Categories interface {
	Create(ctx context.Context, title, slug string) (models.Category, error)
	Update(ctx context.Context, id, title string) (models.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (models.Category, error)
}

type CourseFilter struct {
	CategoryID    string
	Search        string
	InstructorID  string
	PublishedOnly bool
	// Limit 0 falls back to the default page size; negative returns
	// everything.
	Limit, Offset int
}

type Courses interface {
	Create(ctx context.Context, c models.Course) (models.Course, error)
	Update(ctx context.Context, c models.Course) (models.Course, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	GetBySlug(ctx context.Context, slug string) (models.Course, error)
	List(ctx context.Context, f CourseFilter) ([]models.Course, int, error)
	SetPublished(ctx context.Context, id string, published bool) (models.Course, error)
	CountPublished(ctx context.Context) (int, error)
}

type Lessons interface {
	Create(ctx context.Context, l models.Lesson) (models.Lesson, error)
	GetByID(ctx context.Context, id string) (models.Lesson, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Lesson, error)
}

type Transactions interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetPendingByAuthority(ctx context.Context, authority string) (models.Transaction, error)
	// MarkFailed flips status only if still PENDING; ok reports whether a row
	// was updated.
	MarkFailed(ctx context.Context, id string) (bool, error)
	// CompleteAndEnroll flips PENDING -> COMPLETED with refID and inserts the
	// enrollment in one database transaction; ok is false if the row was no
	// longer PENDING.
	CompleteAndEnroll(ctx context.Context, id string, refID int64) (bool, error)
	SumCompleted(ctx context.Context) (int64, error)
	FailStalePending(ctx context.Context, olderThan time.Time) (int, error)
	// WithTx runs fn inside one pgx transaction.
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type Enrollments interface {
	Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error)
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	Count(ctx context.Context) (int, error)
}

type ProgressStore interface {
	Upsert(ctx context.Context, p models.Progress) (models.Progress, error)
	CountCompleted(ctx context.Context, userID string, lessonIDs []string) (int, error)
}

type Certificates interface {
	Create(ctx context.Context, c models.Certificate) (models.Certificate, error)
	GetByID(ctx context.Context, id string) (models.Certificate, error)
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Certificate, error)
}

type InstructorRequests interface {
	Create(ctx context.Context, userID string) (models.InstructorRequest, error)
	GetByID(ctx context.Context, id string) (models.InstructorRequest, error)
	HasPending(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, status models.RequestStatus) ([]models.InstructorRequest, error)
	SetStatus(ctx context.Context, id string, status models.RequestStatus, adminMessage *string) error
	CountPending(ctx context.Context) (int, error)
}
