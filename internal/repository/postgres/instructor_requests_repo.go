package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type instructorRequestsRepo struct{ pool *pgxpool.Pool }

func (r *instructorRequestsRepo) Create(ctx context.Context, userID string) (models.InstructorRequest, error) {
	var ir models.InstructorRequest
	err := r.pool.QueryRow(ctx,
		`INSERT INTO instructor_requests(id, user_id) VALUES($1,$2)
		 RETURNING id, user_id, status, admin_message, created_at`,
		uuid.NewString(), userID,
	).Scan(&ir.ID, &ir.UserID, &ir.Status, &ir.AdminMessage, &ir.CreatedAt)
	return ir, mapErr(err)
}

func (r *instructorRequestsRepo) GetByID(ctx context.Context, id string) (models.InstructorRequest, error) {
	var ir models.InstructorRequest
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, status, admin_message, created_at
		   FROM instructor_requests WHERE id=$1`, id,
	).Scan(&ir.ID, &ir.UserID, &ir.Status, &ir.AdminMessage, &ir.CreatedAt)
	return ir, mapErr(err)
}

func (r *instructorRequestsRepo) HasPending(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM instructor_requests WHERE user_id=$1 AND status='PENDING')`,
		userID).Scan(&exists)
	return exists, err
}

func (r *instructorRequestsRepo) List(ctx context.Context, status models.RequestStatus) ([]models.InstructorRequest, error) {
	q := `SELECT ir.id, ir.user_id, ir.status, ir.admin_message, ir.created_at,
	             u.id, u.phone, u.name, u.role, u.avatar, u.created_at, u.updated_at
	        FROM instructor_requests ir JOIN users u ON u.id=ir.user_id`
	var args []any
	if status != "" {
		q += ` WHERE ir.status=$1`
		args = append(args, status)
	}
	q += ` ORDER BY ir.created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InstructorRequest
	for rows.Next() {
		var ir models.InstructorRequest
		var u models.User
		if err := rows.Scan(&ir.ID, &ir.UserID, &ir.Status, &ir.AdminMessage, &ir.CreatedAt,
			&u.ID, &u.Phone, &u.Name, &u.Role, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		ir.User = &u
		out = append(out, ir)
	}
	return out, rows.Err()
}

func (r *instructorRequestsRepo) SetStatus(ctx context.Context, id string, status models.RequestStatus, adminMessage *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE instructor_requests SET status=$2, admin_message=$3 WHERE id=$1`,
		id, status, adminMessage)
	return err
}

func (r *instructorRequestsRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM instructor_requests WHERE status='PENDING'`).Scan(&n)
	return n, err
}
