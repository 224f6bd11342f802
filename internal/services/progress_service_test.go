package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payalife/lms-backend/internal/models"
)

type progressFixture struct {
	svc          *ProgressService
	lessons      *fakeLessons
	enrollments  *fakeEnrollments
	certificates *fakeCertificates
	user         models.User
	lessonIDs    []string
}

func newProgressFixture(t *testing.T, lessonCount int, enrolled bool) *progressFixture {
	t.Helper()
	lessons := newFakeLessons()
	enrollments := &fakeEnrollments{}
	certificates := &fakeCertificates{}
	progress := newFakeProgress()
	svc := NewProgressService(lessons, enrollments, progress, certificates, slog.Default())

	user := models.User{ID: "student-1", Role: models.RoleStudent}
	ctx := context.Background()
	var ids []string
	for i := 0; i < lessonCount; i++ {
		l, err := lessons.Create(ctx, models.Lesson{CourseID: "course-1", Title: "L", OrderIndex: i + 1})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}
	if enrolled {
		enrollments.add(models.Enrollment{UserID: user.ID, CourseID: "course-1", Status: models.EnrollmentCompleted})
	}
	return &progressFixture{svc: svc, lessons: lessons, enrollments: enrollments, certificates: certificates, user: user, lessonIDs: ids}
}

func TestProgressRequiresEnrollment(t *testing.T) {
	fx := newProgressFixture(t, 2, false)

	_, err := fx.svc.Update(context.Background(), fx.user, fx.lessonIDs[0], true)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProgressFreeLessonWithoutEnrollment(t *testing.T) {
	fx := newProgressFixture(t, 1, false)
	ctx := context.Background()
	free, err := fx.lessons.Create(ctx, models.Lesson{CourseID: "course-2", Title: "Preview", IsFree: true})
	require.NoError(t, err)

	p, err := fx.svc.Update(ctx, fx.user, free.ID, true)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted)
}

func TestProgressUnknownLesson(t *testing.T) {
	fx := newProgressFixture(t, 1, true)

	_, err := fx.svc.Update(context.Background(), fx.user, "nope", true)
	assert.Error(t, err)
}

func TestCertificateIssuedOnCourseCompletion(t *testing.T) {
	fx := newProgressFixture(t, 3, true)
	ctx := context.Background()

	for i, id := range fx.lessonIDs {
		_, err := fx.svc.Update(ctx, fx.user, id, true)
		require.NoError(t, err)

		certs, _ := fx.certificates.ListByUser(ctx, fx.user.ID)
		if i < len(fx.lessonIDs)-1 {
			assert.Empty(t, certs, "no certificate before the last lesson")
		} else {
			require.Len(t, certs, 1)
			assert.Contains(t, certs[0].CertificateNumber, "CERT-")
			assert.Equal(t, "course-1", certs[0].CourseID)
		}
	}

	// Re-completing a lesson must not issue a second certificate.
	_, err := fx.svc.Update(ctx, fx.user, fx.lessonIDs[0], true)
	require.NoError(t, err)
	certs, _ := fx.certificates.ListByUser(ctx, fx.user.ID)
	assert.Len(t, certs, 1)
}

func TestUncompletingKeepsProgressRow(t *testing.T) {
	fx := newProgressFixture(t, 2, true)
	ctx := context.Background()

	_, err := fx.svc.Update(ctx, fx.user, fx.lessonIDs[0], true)
	require.NoError(t, err)
	p, err := fx.svc.Update(ctx, fx.user, fx.lessonIDs[0], false)
	require.NoError(t, err)
	assert.False(t, p.IsCompleted)
}
