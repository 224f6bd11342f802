package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/payalife/lms-backend/internal/metrics"
	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// ProgressService records lesson completion and issues certificates when a
// course is fully watched.
type ProgressService struct {
	lessons      repo.Lessons
	enrollments  repo.Enrollments
	progress     repo.ProgressStore
	certificates repo.Certificates
	log          *slog.Logger
}

func NewProgressService(lessons repo.Lessons, enrollments repo.Enrollments, progress repo.ProgressStore, certificates repo.Certificates, log *slog.Logger) *ProgressService {
	return &ProgressService{lessons: lessons, enrollments: enrollments, progress: progress, certificates: certificates, log: log}
}

// Update upserts the user's progress on a lesson. Free-preview lessons are
// open to anyone signed in; the rest require enrollment in the course.
// Completing the last remaining lesson of a course issues the certificate.
func (s *ProgressService) Update(ctx context.Context, user models.User, lessonID string, completed bool) (models.Progress, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return models.Progress{}, err
	}

	if !lesson.IsFree {
		enrolled, err := s.enrollments.Exists(ctx, user.ID, lesson.CourseID)
		if err != nil {
			return models.Progress{}, fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return models.Progress{}, ErrForbidden
		}
	}

	p, err := s.progress.Upsert(ctx, models.Progress{
		UserID:      user.ID,
		LessonID:    lessonID,
		IsCompleted: completed,
	})
	if err != nil {
		return models.Progress{}, fmt.Errorf("save progress: %w", err)
	}

	if completed {
		if err := s.maybeIssueCertificate(ctx, user.ID, lesson.CourseID); err != nil {
			// Certificate issuance must not fail the progress write.
			s.log.Error("certificate issuance", "user_id", user.ID, "course_id", lesson.CourseID, "error", err)
		}
	}
	return p, nil
}

func (s *ProgressService) maybeIssueCertificate(ctx context.Context, userID, courseID string) error {
	lessons, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}
	if len(lessons) == 0 {
		return nil
	}
	ids := make([]string, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	done, err := s.progress.CountCompleted(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("count completed: %w", err)
	}
	if done < len(lessons) {
		return nil
	}

	exists, err := s.certificates.Exists(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("check certificate: %w", err)
	}
	if exists {
		return nil
	}

	cert, err := s.certificates.Create(ctx, models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: newCertificateNumber(),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Two final lessons completed concurrently; one insert wins.
			return nil
		}
		return fmt.Errorf("create certificate: %w", err)
	}

	metrics.CertificatesIssuedTotal.Inc()
	s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "number", cert.CertificateNumber)
	return nil
}

func newCertificateNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("CERT-%d-%s", time.Now().UnixMilli(), token)
}
