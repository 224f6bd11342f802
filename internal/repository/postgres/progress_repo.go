package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type progressRepo struct{ pool *pgxpool.Pool }

func (r *progressRepo) Upsert(ctx context.Context, p models.Progress) (models.Progress, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO progress(id, user_id, lesson_id, is_completed, completed_at)
		 VALUES($1,$2,$3,$4,$5)
		 ON CONFLICT (user_id, lesson_id) DO UPDATE
		 SET is_completed=EXCLUDED.is_completed, completed_at=EXCLUDED.completed_at
		 RETURNING id, user_id, lesson_id, is_completed, completed_at`,
		p.ID, p.UserID, p.LessonID, p.IsCompleted, p.CompletedAt,
	).Scan(&p.ID, &p.UserID, &p.LessonID, &p.IsCompleted, &p.CompletedAt)
	return p, mapErr(err)
}

func (r *progressRepo) CountCompleted(ctx context.Context, userID string, lessonIDs []string) (int, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM progress
		  WHERE user_id=$1 AND is_completed AND lesson_id = ANY($2)`,
		userID, lessonIDs).Scan(&n)
	return n, err
}
