package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/payalife/lms-backend/internal/repository"
)

type Repositories struct {
	Users              repo.Users
	Sessions           repo.Sessions
	OTPCodes           repo.OTPCodes
	Categories         repo.Categories
	Courses            repo.Courses
	Lessons            repo.Lessons
	Transactions       repo.Transactions
	Enrollments        repo.Enrollments
	Progress           repo.ProgressStore
	Certificates       repo.Certificates
	InstructorRequests repo.InstructorRequests
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:              &usersRepo{pool},
		Sessions:           &sessionsRepo{pool},
		OTPCodes:           &otpRepo{pool},
		Categories:         &categoriesRepo{pool},
		Courses:            &coursesRepo{pool},
		Lessons:            &lessonsRepo{pool},
		Transactions:       &transactionsRepo{pool},
		Enrollments:        &enrollmentsRepo{pool},
		Progress:           &progressRepo{pool},
		Certificates:       &certificatesRepo{pool},
		InstructorRequests: &instructorRequestsRepo{pool},
	}
}

// mapErr converts driver-level errors to the repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repo.ErrDuplicate
	}
	return err
}
