package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

type coursesRepo struct{ pool *pgxpool.Pool }

const courseCols = `c.id, c.title, c.slug, c.description, c.price, c.thumbnail,
	c.is_published, c.category_id, c.instructor_id, c.created_at, c.updated_at,
	u.name AS instructor_name,
	(SELECT count(*) FROM lessons WHERE course_id=c.id) AS lesson_count,
	(SELECT count(*) FROM enrollments WHERE course_id=c.id AND status='COMPLETED') AS enrollment_count`

const courseFrom = ` FROM courses c JOIN users u ON u.id=c.instructor_id`

func scanCourse(row interface{ Scan(...any) error }) (models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Price, &c.Thumbnail,
		&c.IsPublished, &c.CategoryID, &c.InstructorID, &c.CreatedAt, &c.UpdatedAt,
		&c.InstructorName, &c.LessonCount, &c.EnrollmentCount)
	return c, mapErr(err)
}

func (r *coursesRepo) Create(ctx context.Context, c models.Course) (models.Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO courses(id, title, slug, description, price, thumbnail, is_published, category_id, instructor_id)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Title, c.Slug, c.Description, c.Price, c.Thumbnail, c.IsPublished, c.CategoryID, c.InstructorID)
	if err != nil {
		return models.Course{}, mapErr(err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *coursesRepo) Update(ctx context.Context, c models.Course) (models.Course, error) {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET title=$2, slug=$3, description=$4, price=$5, thumbnail=$6,
		        is_published=$7, category_id=$8, updated_at=now()
		  WHERE id=$1`,
		c.ID, c.Title, c.Slug, c.Description, c.Price, c.Thumbnail, c.IsPublished, c.CategoryID)
	if err != nil {
		return models.Course{}, mapErr(err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *coursesRepo) GetByID(ctx context.Context, id string) (models.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseCols+courseFrom+` WHERE c.id=$1`, id))
}

func (r *coursesRepo) GetBySlug(ctx context.Context, slug string) (models.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseCols+courseFrom+` WHERE c.slug=$1`, slug))
}

func (r *coursesRepo) List(ctx context.Context, f repo.CourseFilter) ([]models.Course, int, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.PublishedOnly {
		conds = append(conds, "c.is_published")
	}
	if f.CategoryID != "" {
		conds = append(conds, "c.category_id="+arg(f.CategoryID))
	}
	if f.InstructorID != "" {
		conds = append(conds, "c.instructor_id="+arg(f.InstructorID))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, "(c.title ILIKE "+p+" OR c.description ILIKE "+p+")")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*)`+courseFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit == 0 {
		f.Limit = 10
	}
	q := `SELECT ` + courseCols + courseFrom + where + ` ORDER BY c.created_at DESC`
	// A negative limit means the whole result set (dashboard listings).
	if f.Limit > 0 {
		q += ` LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *coursesRepo) SetPublished(ctx context.Context, id string, published bool) (models.Course, error) {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET is_published=$2, updated_at=now() WHERE id=$1`, id, published)
	if err != nil {
		return models.Course{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *coursesRepo) CountPublished(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM courses WHERE is_published`).Scan(&n)
	return n, err
}
