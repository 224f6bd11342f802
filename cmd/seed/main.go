// Seed loads a minimal data set for local development: an admin account,
// a few categories, and one published course with lessons.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/payalife/lms-backend/internal/config"
	"github.com/payalife/lms-backend/internal/db"
	"github.com/payalife/lms-backend/internal/logger"
	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
	"github.com/payalife/lms-backend/internal/repository/postgres"
)

const adminPhone = "09121234567"

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("migrations", "err", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(pool)
	if err := seed(ctx, repos); err != nil {
		log.Error("seed", "err", err)
		os.Exit(1)
	}
	log.Info("seed complete", "admin_phone", adminPhone)
}

func seed(ctx context.Context, repos postgres.Repositories) error {
	admin, err := repos.Users.GetByPhone(ctx, adminPhone)
	if errors.Is(err, repo.ErrNotFound) {
		name := "Admin"
		admin, err = repos.Users.Create(ctx, models.User{Phone: adminPhone, Name: &name, Role: models.RoleAdmin})
	}
	if err != nil {
		return fmt.Errorf("admin user: %w", err)
	}
	if admin.Role != models.RoleAdmin {
		if err := repos.Users.SetRole(ctx, admin.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
	}

	categories := map[string]string{
		"Programming": "programming",
		"Design":      "design",
		"Business":    "business",
	}
	var programming models.Category
	for title, slug := range categories {
		cat, err := repos.Categories.Create(ctx, title, slug)
		if errors.Is(err, repo.ErrDuplicate) {
			cat, err = repos.Categories.GetBySlug(ctx, slug)
		}
		if err != nil {
			return fmt.Errorf("category %s: %w", slug, err)
		}
		if slug == "programming" {
			programming = cat
		}
	}

	if _, err := repos.Courses.GetBySlug(ctx, "intro-to-go"); err == nil {
		return nil // already seeded
	}

	desc := "A hands-on introduction to the Go programming language."
	course, err := repos.Courses.Create(ctx, models.Course{
		Title:        "Intro to Go",
		Slug:         "intro-to-go",
		Description:  &desc,
		Price:        0,
		CategoryID:   programming.ID,
		InstructorID: admin.ID,
	})
	if err != nil {
		return fmt.Errorf("course: %w", err)
	}
	if _, err := repos.Courses.SetPublished(ctx, course.ID, true); err != nil {
		return fmt.Errorf("publish course: %w", err)
	}

	lessons := []models.Lesson{
		{CourseID: course.ID, Title: "Getting started", VideoURL: "/uploads/videos/go-01.mp4", OrderIndex: 1, IsFree: true},
		{CourseID: course.ID, Title: "Types and functions", VideoURL: "/uploads/videos/go-02.mp4", OrderIndex: 2},
		{CourseID: course.ID, Title: "Goroutines and channels", VideoURL: "/uploads/videos/go-03.mp4", OrderIndex: 3},
	}
	for _, l := range lessons {
		if _, err := repos.Lessons.Create(ctx, l); err != nil {
			return fmt.Errorf("lesson %q: %w", l.Title, err)
		}
	}
	return nil
}
