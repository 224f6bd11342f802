package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type lessonsRepo struct{ pool *pgxpool.Pool }

func (r *lessonsRepo) Create(ctx context.Context, l models.Lesson) (models.Lesson, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lessons(id, course_id, title, video_url, order_index, duration, is_free)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at`,
		l.ID, l.CourseID, l.Title, l.VideoURL, l.OrderIndex, l.Duration, l.IsFree,
	).Scan(&l.CreatedAt)
	return l, mapErr(err)
}

func (r *lessonsRepo) GetByID(ctx context.Context, id string) (models.Lesson, error) {
	var l models.Lesson
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, video_url, order_index, duration, is_free, created_at
		   FROM lessons WHERE id=$1`, id,
	).Scan(&l.ID, &l.CourseID, &l.Title, &l.VideoURL, &l.OrderIndex, &l.Duration, &l.IsFree, &l.CreatedAt)
	return l, mapErr(err)
}

func (r *lessonsRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, video_url, order_index, duration, is_free, created_at
		   FROM lessons WHERE course_id=$1 ORDER BY order_index ASC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.VideoURL, &l.OrderIndex, &l.Duration, &l.IsFree, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
