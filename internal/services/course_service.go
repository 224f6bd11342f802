package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// CourseService serves the public catalog and the enrollment entry point.
type CourseService struct {
	courses     repo.Courses
	lessons     repo.Lessons
	categories  repo.Categories
	enrollments repo.Enrollments
	payments    *PaymentService
	log         *slog.Logger
}

func NewCourseService(courses repo.Courses, lessons repo.Lessons, categories repo.Categories, enrollments repo.Enrollments, payments *PaymentService, log *slog.Logger) *CourseService {
	return &CourseService{courses: courses, lessons: lessons, categories: categories, enrollments: enrollments, payments: payments, log: log}
}

// CourseList is a catalog page plus its total for pagination.
type CourseList struct {
	Courses []models.Course
	Total   int
}

// List returns published courses matching the filter. PublishedOnly is
// forced here; draft visibility is the instructor and admin surfaces' job.
// CategorySlug, when set, overrides CategoryID; an unknown slug yields an
// empty page rather than an error.
func (s *CourseService) List(ctx context.Context, filter repo.CourseFilter, categorySlug string) (CourseList, error) {
	filter.PublishedOnly = true
	if categorySlug != "" {
		cat, err := s.categories.GetBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return CourseList{}, nil
			}
			return CourseList{}, fmt.Errorf("resolve category: %w", err)
		}
		filter.CategoryID = cat.ID
	}
	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return CourseList{}, fmt.Errorf("list courses: %w", err)
	}
	return CourseList{Courses: courses, Total: total}, nil
}

// CourseDetail is a course with its lessons and, when a viewer is known,
// whether that viewer is enrolled.
type CourseDetail struct {
	Course     models.Course
	IsEnrolled bool
}

// GetBySlug returns a published course with its lessons. viewer is nil for
// anonymous requests. Unpublished courses stay visible to their instructor
// and to admins only.
func (s *CourseService) GetBySlug(ctx context.Context, slug string, viewer *models.User) (CourseDetail, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return CourseDetail{}, err
	}
	if !course.IsPublished {
		if viewer == nil || (viewer.Role != models.RoleAdmin && viewer.ID != course.InstructorID) {
			return CourseDetail{}, repo.ErrNotFound
		}
	}

	lessons, err := s.lessons.ListByCourse(ctx, course.ID)
	if err != nil {
		return CourseDetail{}, fmt.Errorf("list lessons: %w", err)
	}
	course.Lessons = lessons

	detail := CourseDetail{Course: course}
	if viewer != nil {
		enrolled, err := s.enrollments.Exists(ctx, viewer.ID, course.ID)
		if err != nil {
			return CourseDetail{}, fmt.Errorf("check enrollment: %w", err)
		}
		detail.IsEnrolled = enrolled
	}
	return detail, nil
}

// EnrollResult is either an immediate enrollment (free course) or a pending
// payment the client must redirect to.
type EnrollResult struct {
	Enrolled   bool
	PaymentURL string
	Authority  string
}

// Enroll enrolls the user in a free course directly, or starts a payment for
// a paid one. Enrolling twice in the same course is rejected up front.
func (s *CourseService) Enroll(ctx context.Context, user models.User, slug string) (EnrollResult, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return EnrollResult{}, err
	}
	if !course.IsPublished {
		return EnrollResult{}, ErrNotPublished
	}

	enrolled, err := s.enrollments.Exists(ctx, user.ID, course.ID)
	if err != nil {
		return EnrollResult{}, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return EnrollResult{}, ErrAlreadyEnrolled
	}

	if course.Free() {
		_, err := s.enrollments.Create(ctx, models.Enrollment{
			UserID:   user.ID,
			CourseID: course.ID,
			Status:   models.EnrollmentCompleted,
		})
		if err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return EnrollResult{}, ErrAlreadyEnrolled
			}
			return EnrollResult{}, fmt.Errorf("enroll: %w", err)
		}
		s.log.Info("free enrollment", "user_id", user.ID, "course_id", course.ID)
		return EnrollResult{Enrolled: true}, nil
	}

	authority, payURL, err := s.payments.Initiate(ctx, user.ID, course)
	if err != nil {
		return EnrollResult{}, err
	}
	return EnrollResult{PaymentURL: payURL, Authority: authority}, nil
}

// Categories lists all categories with their published course counts.
func (s *CourseService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}
