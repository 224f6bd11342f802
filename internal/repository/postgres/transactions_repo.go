package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TxnPending
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions(id, user_id, course_id, amount, authority, status)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING created_at, updated_at`,
		t.ID, t.UserID, t.CourseID, t.Amount, t.Authority, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return t, mapErr(err)
}

func (r *transactionsRepo) GetPendingByAuthority(ctx context.Context, authority string) (models.Transaction, error) {
	var t models.Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, course_id, amount, authority, status, ref_id, created_at, updated_at
		   FROM transactions WHERE authority=$1 AND status='PENDING'`, authority,
	).Scan(&t.ID, &t.UserID, &t.CourseID, &t.Amount, &t.Authority, &t.Status, &t.RefID, &t.CreatedAt, &t.UpdatedAt)
	return t, mapErr(err)
}

func (r *transactionsRepo) MarkFailed(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET status='FAILED', updated_at=now()
		  WHERE id=$1 AND status='PENDING'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CompleteAndEnroll is the single logical unit of the callback flow: the
// PENDING->COMPLETED flip and the enrollment insert commit or roll back
// together. The status predicate makes a concurrent duplicate delivery a
// no-op (only one update can observe PENDING).
func (r *transactionsRepo) CompleteAndEnroll(ctx context.Context, id string, refID int64) (bool, error) {
	ok := false
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		var userID string
		var courseID *string
		var amount int64
		err := tx.QueryRow(ctx,
			`UPDATE transactions SET status='COMPLETED', ref_id=$2, updated_at=now()
			  WHERE id=$1 AND status='PENDING'
			  RETURNING user_id, course_id, amount`,
			id, refID,
		).Scan(&userID, &courseID, &amount)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // already resolved
		}
		if err != nil {
			return err
		}
		ok = true
		if courseID == nil {
			return nil
		}
		// ON CONFLICT keeps a second verified payment for an owned course
		// from aborting the tx: the buyer is already enrolled, and the flip
		// to COMPLETED must still commit so the charge stays on record.
		_, err = tx.Exec(ctx,
			`INSERT INTO enrollments(id, user_id, course_id, price_paid, transaction_id, status)
			 VALUES($1,$2,$3,$4,$5,'COMPLETED')
			 ON CONFLICT (user_id, course_id) WHERE status = 'COMPLETED' DO NOTHING`,
			uuid.NewString(), userID, *courseID, amount, id)
		return mapErr(err)
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *transactionsRepo) SumCompleted(ctx context.Context) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(sum(amount), 0) FROM transactions WHERE status='COMPLETED'`).Scan(&sum)
	return sum, err
}

func (r *transactionsRepo) FailStalePending(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET status='FAILED', updated_at=now()
		  WHERE status='PENDING' AND created_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *transactionsRepo) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
