package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type sessionsRepo struct{ pool *pgxpool.Pool }

func (r *sessionsRepo) Create(ctx context.Context, userID string, ttl time.Duration) (models.Session, error) {
	var s models.Session
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions(id, user_id, expires_at) VALUES($1,$2,$3)
		 RETURNING id, user_id, created_at, expires_at`,
		uuid.NewString(), userID, time.Now().Add(ttl),
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	return s, mapErr(err)
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (models.Session, error) {
	var s models.Session
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id=$1`, id,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	return s, mapErr(err)
}

func (r *sessionsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	return err
}
