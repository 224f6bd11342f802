package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
)

type categoriesRepo struct{ pool *pgxpool.Pool }

func (r *categoriesRepo) Create(ctx context.Context, title, slug string) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories(id, title, slug) VALUES($1,$2,$3)
		 RETURNING id, title, slug, created_at`,
		uuid.NewString(), title, slug,
	).Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt)
	return c, mapErr(err)
}

func (r *categoriesRepo) Update(ctx context.Context, id, title string) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET title=$2 WHERE id=$1
		 RETURNING id, title, slug, created_at`,
		id, title,
	).Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt)
	return c, mapErr(err)
}

func (r *categoriesRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return err
}

func (r *categoriesRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.title, c.slug, c.created_at,
		        (SELECT count(*) FROM courses WHERE category_id=c.id AND is_published) AS course_count
		   FROM categories c
		  ORDER BY c.title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt, &c.CourseCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoriesRepo) GetBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, slug, created_at FROM categories WHERE slug=$1`, slug,
	).Scan(&c.ID, &c.Title, &c.Slug, &c.CreatedAt)
	return c, mapErr(err)
}
