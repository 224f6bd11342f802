package services

import (
	"context"
	"fmt"

	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// UserService covers the signed-in user's own profile and library.
type UserService struct {
	users       repo.Users
	courses     repo.Courses
	enrollments repo.Enrollments
}

func NewUserService(users repo.Users, courses repo.Courses, enrollments repo.Enrollments) *UserService {
	return &UserService{users: users, courses: courses, enrollments: enrollments}
}

// UpdateProfile patches name and avatar. Nil fields are left untouched.
func (s *UserService) UpdateProfile(ctx context.Context, user models.User, name, avatar *string) (models.User, error) {
	if name != nil {
		user.Name = name
	}
	if avatar != nil {
		user.Avatar = avatar
	}
	if err := user.Validate(); err != nil {
		return models.User{}, err
	}
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// EnrolledCourse pairs a course with the enrollment that granted access.
type EnrolledCourse struct {
	Course     models.Course
	Enrollment models.Enrollment
}

// MyCourses lists the user's enrollments with their courses.
func (s *UserService) MyCourses(ctx context.Context, userID string) ([]EnrolledCourse, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	out := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.courses.GetByID(ctx, e.CourseID)
		if err != nil {
			return nil, fmt.Errorf("load course %s: %w", e.CourseID, err)
		}
		out = append(out, EnrolledCourse{Course: course, Enrollment: e})
	}
	return out, nil
}
