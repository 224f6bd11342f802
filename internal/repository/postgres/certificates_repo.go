package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type certificatesRepo struct{ pool *pgxpool.Pool }

func (r *certificatesRepo) Create(ctx context.Context, c models.Certificate) (models.Certificate, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO certificates(id, user_id, course_id, certificate_number)
		 VALUES($1,$2,$3,$4)
		 RETURNING issued_at`,
		c.ID, c.UserID, c.CourseID, c.CertificateNumber,
	).Scan(&c.IssuedAt)
	return c, mapErr(err)
}

func (r *certificatesRepo) GetByID(ctx context.Context, id string) (models.Certificate, error) {
	var c models.Certificate
	err := r.pool.QueryRow(ctx,
		`SELECT ct.id, ct.user_id, ct.course_id, ct.certificate_number, ct.issued_at,
		        u.name, u.phone, co.title
		   FROM certificates ct
		   JOIN users u ON u.id=ct.user_id
		   JOIN courses co ON co.id=ct.course_id
		  WHERE ct.id=$1`, id,
	).Scan(&c.ID, &c.UserID, &c.CourseID, &c.CertificateNumber, &c.IssuedAt,
		&c.HolderName, &c.HolderPhone, &c.CourseTitle)
	return c, mapErr(err)
}

func (r *certificatesRepo) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM certificates WHERE user_id=$1 AND course_id=$2)`,
		userID, courseID).Scan(&exists)
	return exists, err
}

func (r *certificatesRepo) ListByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ct.id, ct.user_id, ct.course_id, ct.certificate_number, ct.issued_at, co.title
		   FROM certificates ct
		   JOIN courses co ON co.id=ct.course_id
		  WHERE ct.user_id=$1 ORDER BY ct.issued_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.CertificateNumber, &c.IssuedAt, &c.CourseTitle); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
