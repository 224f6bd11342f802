package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"

	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// AdminService is the back-office: platform stats, instructor request
// review, publication, and category management.
type AdminService struct {
	users        repo.Users
	courses      repo.Courses
	categories   repo.Categories
	enrollments  repo.Enrollments
	transactions repo.Transactions
	requests     repo.InstructorRequests
	log          *slog.Logger
}

func NewAdminService(users repo.Users, courses repo.Courses, categories repo.Categories, enrollments repo.Enrollments, transactions repo.Transactions, requests repo.InstructorRequests, log *slog.Logger) *AdminService {
	return &AdminService{users: users, courses: courses, categories: categories, enrollments: enrollments, transactions: transactions, requests: requests, log: log}
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers                int   `json:"total_users"`
	PublishedCourses          int   `json:"published_courses"`
	TotalEnrollments          int   `json:"total_enrollments"`
	TotalRevenue              int64 `json:"total_revenue"`
	PendingInstructorRequests int   `json:"pending_instructor_requests"`
}

func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	if st.PublishedCourses, err = s.courses.CountPublished(ctx); err != nil {
		return Stats{}, fmt.Errorf("count courses: %w", err)
	}
	if st.TotalEnrollments, err = s.enrollments.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count enrollments: %w", err)
	}
	if st.TotalRevenue, err = s.transactions.SumCompleted(ctx); err != nil {
		return Stats{}, fmt.Errorf("sum revenue: %w", err)
	}
	if st.PendingInstructorRequests, err = s.requests.CountPending(ctx); err != nil {
		return Stats{}, fmt.Errorf("count requests: %w", err)
	}
	return st, nil
}

// ListInstructorRequests returns requests in the given state with their users.
func (s *AdminService) ListInstructorRequests(ctx context.Context, status models.RequestStatus) ([]models.InstructorRequest, error) {
	return s.requests.List(ctx, status)
}

// ReviewInstructorRequest approves or rejects a pending request. Approval
// promotes the user to INSTRUCTOR. Reviewing a settled request fails.
func (s *AdminService) ReviewInstructorRequest(ctx context.Context, id string, approve bool, message *string) (models.InstructorRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return models.InstructorRequest{}, err
	}
	if req.Status != models.RequestPending {
		return models.InstructorRequest{}, ErrForbidden
	}

	status := models.RequestRejected
	if approve {
		status = models.RequestApproved
	}
	if err := s.requests.SetStatus(ctx, id, status, message); err != nil {
		return models.InstructorRequest{}, fmt.Errorf("set status: %w", err)
	}
	if approve {
		if err := s.users.SetRole(ctx, req.UserID, models.RoleInstructor); err != nil {
			return models.InstructorRequest{}, fmt.Errorf("promote user: %w", err)
		}
	}
	s.log.Info("instructor request reviewed", "request_id", id, "user_id", req.UserID, "approved", approve)

	req.Status = status
	req.AdminMessage = message
	return req, nil
}

// SetCoursePublished flips a course's catalog visibility.
func (s *AdminService) SetCoursePublished(ctx context.Context, courseID string, published bool) (models.Course, error) {
	course, err := s.courses.SetPublished(ctx, courseID, published)
	if err != nil {
		return models.Course{}, err
	}
	s.log.Info("course publication changed", "course_id", courseID, "published", published)
	return course, nil
}

// CreateCategory adds a category; the slug derives from the title.
func (s *AdminService) CreateCategory(ctx context.Context, title string) (models.Category, error) {
	return s.categories.Create(ctx, title, slug.Make(title))
}

// RenameCategory retitles a category, keeping its slug stable so catalog
// links stay valid.
func (s *AdminService) RenameCategory(ctx context.Context, id, title string) (models.Category, error) {
	return s.categories.Update(ctx, id, title)
}

// DeleteCategory removes a category. Categories with courses are protected
// by the foreign key and surface as a duplicate-style conflict.
func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}
