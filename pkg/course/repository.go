package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simple-school/school-security/pkg/pagination"
)

// ErrCourseNotFound is returned by repositories when no course exists
// for the given id.
var ErrCourseNotFound = errors.New("course not found")

// Repository defines the data access contract for courses.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Course, error)
	FindAll(ctx context.Context, page pagination.Page) ([]Course, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	// Save inserts the course, or fully overwrites the row when the id
	// already exists. A zero id is assigned a new one.
	Save(ctx context.Context, c Course) (Course, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

// sortColumns whitelists DTO sort fields against table columns.
var sortColumns = map[string]string{
	"id":          "course_id",
	"name":        "course_name",
	"description": "course_description",
}

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-based course repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Course, error) {
	var c Course
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, course_name, course_description
		 FROM school.courses WHERE course_id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, ErrCourseNotFound
		}
		return Course{}, err
	}
	return c, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, page pagination.Page) ([]Course, error) {
	query := fmt.Sprintf(
		`SELECT course_id, course_name, course_description
		 FROM school.courses %s LIMIT $1 OFFSET $2`,
		page.OrderBy(sortColumns, "course_name ASC"))

	rows, err := r.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM school.courses WHERE course_id = $1)`, id).
		Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM school.courses`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) Save(ctx context.Context, c Course) (Course, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO school.courses (course_id, course_name, course_description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (course_id) DO UPDATE
		 SET course_name = EXCLUDED.course_name,
		     course_description = EXCLUDED.course_description`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return Course{}, err
	}
	return c, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM school.courses WHERE course_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM school.courses`)
	return err
}
