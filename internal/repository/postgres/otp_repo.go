package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

type otpRepo struct{ pool *pgxpool.Pool }

func (r *otpRepo) Create(ctx context.Context, phone, codeHash string, expiresAt time.Time) (models.OTPCode, error) {
	var c models.OTPCode
	err := r.pool.QueryRow(ctx,
		`INSERT INTO otp_codes(id, phone, code_hash, expires_at) VALUES($1,$2,$3,$4)
		 RETURNING id, phone, code_hash, created_at, expires_at, used`,
		uuid.NewString(), phone, codeHash, expiresAt,
	).Scan(&c.ID, &c.Phone, &c.CodeHash, &c.CreatedAt, &c.ExpiresAt, &c.Used)
	return c, mapErr(err)
}

func (r *otpRepo) Current(ctx context.Context, phone string, now time.Time, limit int) ([]models.OTPCode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, phone, code_hash, created_at, expires_at, used
		   FROM otp_codes
		  WHERE phone=$1 AND used=false AND expires_at > $2
		  ORDER BY created_at DESC
		  LIMIT $3`,
		phone, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OTPCode
	for rows.Next() {
		var c models.OTPCode
		if err := rows.Scan(&c.ID, &c.Phone, &c.CodeHash, &c.CreatedAt, &c.ExpiresAt, &c.Used); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *otpRepo) MarkUsed(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE otp_codes SET used=true WHERE id=$1 AND used=false`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *otpRepo) CountSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM otp_codes WHERE phone=$1 AND created_at >= $2`,
		phone, since).Scan(&n)
	return n, err
}

func (r *otpRepo) LastCreatedAt(ctx context.Context, phone string) (time.Time, bool, error) {
	var t time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT created_at FROM otp_codes WHERE phone=$1 ORDER BY created_at DESC LIMIT 1`,
		phone).Scan(&t)
	if err != nil {
		if mapErr(err) == repo.ErrNotFound {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return t, true, nil
}
