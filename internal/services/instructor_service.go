package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"

	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// InstructorService covers the instructor dashboard: becoming an instructor,
// authoring courses and lessons, and reading sales.
type InstructorService struct {
	requests    repo.InstructorRequests
	courses     repo.Courses
	lessons     repo.Lessons
	categories  repo.Categories
	enrollments repo.Enrollments
	log         *slog.Logger
}

func NewInstructorService(requests repo.InstructorRequests, courses repo.Courses, lessons repo.Lessons, categories repo.Categories, enrollments repo.Enrollments, log *slog.Logger) *InstructorService {
	return &InstructorService{requests: requests, courses: courses, lessons: lessons, categories: categories, enrollments: enrollments, log: log}
}

// RequestUpgrade files an instructor request for a student. One pending
// request per user; instructors and admins have nothing to request.
func (s *InstructorService) RequestUpgrade(ctx context.Context, user models.User) (models.InstructorRequest, error) {
	if user.Role.CanTeach() {
		return models.InstructorRequest{}, ErrForbidden
	}
	pending, err := s.requests.HasPending(ctx, user.ID)
	if err != nil {
		return models.InstructorRequest{}, fmt.Errorf("check pending: %w", err)
	}
	if pending {
		return models.InstructorRequest{}, ErrDuplicateRequest
	}
	req, err := s.requests.Create(ctx, user.ID)
	if err != nil {
		return models.InstructorRequest{}, fmt.Errorf("create request: %w", err)
	}
	s.log.Info("instructor request filed", "user_id", user.ID, "request_id", req.ID)
	return req, nil
}

// CourseInput is the instructor-editable surface of a course. Nil fields
// are left untouched on update.
type CourseInput struct {
	Title       string
	Description *string
	Price       *int64
	CategoryID  string
	Thumbnail   *string
}

// CreateCourse creates an unpublished course owned by the instructor. The
// slug derives from the title with a timestamp suffix for uniqueness.
func (s *InstructorService) CreateCourse(ctx context.Context, user models.User, in CourseInput) (models.Course, error) {
	if !user.Role.CanTeach() {
		return models.Course{}, ErrForbidden
	}
	if _, err := s.categoryByID(ctx, in.CategoryID); err != nil {
		return models.Course{}, err
	}
	var price int64
	if in.Price != nil {
		price = *in.Price
	}
	course, err := s.courses.Create(ctx, models.Course{
		Title:        in.Title,
		Slug:         fmt.Sprintf("%s-%d", slug.Make(in.Title), time.Now().UnixMilli()),
		Description:  in.Description,
		Price:        price,
		Thumbnail:    in.Thumbnail,
		CategoryID:   in.CategoryID,
		InstructorID: user.ID,
	})
	if err != nil {
		return models.Course{}, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("course created", "course_id", course.ID, "instructor_id", user.ID)
	return course, nil
}

// UpdateCourse patches a course the caller owns. Admins may edit any course.
// Publication state is not touched here; that is the admin publish endpoint.
func (s *InstructorService) UpdateCourse(ctx context.Context, user models.User, courseID string, in CourseInput) (models.Course, error) {
	course, err := s.ownedCourse(ctx, user, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if in.CategoryID != "" && in.CategoryID != course.CategoryID {
		if _, err := s.categoryByID(ctx, in.CategoryID); err != nil {
			return models.Course{}, err
		}
		course.CategoryID = in.CategoryID
	}
	if in.Title != "" {
		course.Title = in.Title
	}
	if in.Description != nil {
		course.Description = in.Description
	}
	if in.Price != nil {
		course.Price = *in.Price
	}
	if in.Thumbnail != nil {
		course.Thumbnail = in.Thumbnail
	}
	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return models.Course{}, fmt.Errorf("update course: %w", err)
	}
	return updated, nil
}

// LessonInput is the instructor-editable surface of a lesson.
type LessonInput struct {
	Title      string
	VideoURL   string
	OrderIndex int
	Duration   *int
	IsFree     bool
}

// AddLesson appends a lesson to a course the caller owns.
func (s *InstructorService) AddLesson(ctx context.Context, user models.User, courseID string, in LessonInput) (models.Lesson, error) {
	if _, err := s.ownedCourse(ctx, user, courseID); err != nil {
		return models.Lesson{}, err
	}
	lesson, err := s.lessons.Create(ctx, models.Lesson{
		CourseID:   courseID,
		Title:      in.Title,
		VideoURL:   in.VideoURL,
		OrderIndex: in.OrderIndex,
		Duration:   in.Duration,
		IsFree:     in.IsFree,
	})
	if err != nil {
		return models.Lesson{}, fmt.Errorf("create lesson: %w", err)
	}
	return lesson, nil
}

// MyCourses lists the instructor's own courses, drafts included, without
// pagination.
func (s *InstructorService) MyCourses(ctx context.Context, user models.User) ([]models.Course, error) {
	courses, _, err := s.courses.List(ctx, repo.CourseFilter{InstructorID: user.ID, Limit: -1})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// CourseSales is the per-course line of the sales report.
type CourseSales struct {
	Course      models.Course `json:"course"`
	Enrollments int           `json:"enrollments"`
	Revenue     int64         `json:"revenue"`
}

// Sales totals enrollments and paid revenue across the instructor's courses.
func (s *InstructorService) Sales(ctx context.Context, user models.User) ([]CourseSales, error) {
	courses, err := s.MyCourses(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]CourseSales, 0, len(courses))
	for _, c := range courses {
		enrollments, err := s.enrollments.ListByCourse(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list enrollments for %s: %w", c.ID, err)
		}
		line := CourseSales{Course: c, Enrollments: len(enrollments)}
		for _, e := range enrollments {
			line.Revenue += e.PricePaid
		}
		out = append(out, line)
	}
	return out, nil
}

func (s *InstructorService) ownedCourse(ctx context.Context, user models.User, courseID string) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if course.InstructorID != user.ID && user.Role != models.RoleAdmin {
		return models.Course{}, ErrForbidden
	}
	return course, nil
}

func (s *InstructorService) categoryByID(ctx context.Context, id string) (models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return models.Category{}, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range cats {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}
