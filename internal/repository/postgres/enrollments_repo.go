package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type enrollmentsRepo struct{ pool *pgxpool.Pool }

func (r *enrollmentsRepo) Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = models.EnrollmentCompleted
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments(id, user_id, course_id, price_paid, transaction_id, status)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING purchased_at`,
		e.ID, e.UserID, e.CourseID, e.PricePaid, e.TransactionID, e.Status,
	).Scan(&e.PurchasedAt)
	return e, mapErr(err)
}

func (r *enrollmentsRepo) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id=$1 AND course_id=$2 AND status='COMPLETED')`,
		userID, courseID).Scan(&exists)
	return exists, err
}

const enrollmentCols = `id, user_id, course_id, price_paid, transaction_id, status, purchased_at`

func (r *enrollmentsRepo) list(ctx context.Context, q string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.PricePaid, &e.TransactionID, &e.Status, &e.PurchasedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *enrollmentsRepo) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	return r.list(ctx,
		`SELECT `+enrollmentCols+` FROM enrollments
		  WHERE user_id=$1 AND status='COMPLETED' ORDER BY purchased_at DESC`, userID)
}

func (r *enrollmentsRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	return r.list(ctx,
		`SELECT `+enrollmentCols+` FROM enrollments
		  WHERE course_id=$1 AND status='COMPLETED' ORDER BY purchased_at DESC`, courseID)
}

func (r *enrollmentsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM enrollments WHERE status='COMPLETED'`).Scan(&n)
	return n, err
}
