package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, phone, name, role, avatar, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Role, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, phone, name, role, avatar) VALUES($1,$2,$3,$4,$5)
		 RETURNING `+userCols,
		u.ID, u.Phone, u.Name, u.Role, u.Avatar)
	return scanUser(row)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE phone=$1`, phone))
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET name=$2, avatar=$3, updated_at=now() WHERE id=$1
		 RETURNING `+userCols,
		u.ID, u.Name, u.Avatar)
	return scanUser(row)
}

func (r *usersRepo) SetRole(ctx context.Context, id string, role models.Role) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET role=$2, updated_at=now() WHERE id=$1`, id, role)
	return err
}

func (r *usersRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
