package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simple-school/school-security/pkg/pagination"
)

// ErrStudentNotFound is returned by repositories when no student exists
// for the given id.
var ErrStudentNotFound = errors.New("student not found")

// Repository defines the data access contract for students.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Student, error)
	FindAll(ctx context.Context, page pagination.Page) ([]Student, error)
	// FindByCourseID returns students enrolled in the given course.
	FindByCourseID(ctx context.Context, courseID uuid.UUID, page pagination.Page) ([]Student, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, s Student) (Student, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

var sortColumns = map[string]string{
	"id":        "student_id",
	"firstName": "first_name",
	"lastName":  "last_name",
}

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-based student repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Student, error) {
	var s Student
	err := r.pool.QueryRow(ctx,
		`SELECT student_id, first_name, last_name, group_id
		 FROM school.students WHERE student_id = $1`, id).
		Scan(&s.ID, &s.FirstName, &s.LastName, &s.GroupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Student{}, ErrStudentNotFound
		}
		return Student{}, err
	}
	if err := r.loadCourseIDs(ctx, []*Student{&s}); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, page pagination.Page) ([]Student, error) {
	query := fmt.Sprintf(
		`SELECT student_id, first_name, last_name, group_id
		 FROM school.students %s LIMIT $1 OFFSET $2`,
		page.OrderBy(sortColumns, "last_name ASC"))

	rows, err := r.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

func (r *PostgresRepository) FindByCourseID(ctx context.Context, courseID uuid.UUID, page pagination.Page) ([]Student, error) {
	query := fmt.Sprintf(
		`SELECT s.student_id, s.first_name, s.last_name, s.group_id
		 FROM school.students s
		 JOIN school.students_courses sc ON sc.student_id = s.student_id
		 WHERE sc.course_id = $1
		 %s LIMIT $2 OFFSET $3`,
		page.OrderBy(map[string]string{
			"id":        "s.student_id",
			"firstName": "s.first_name",
			"lastName":  "s.last_name",
		}, "s.last_name ASC"))

	rows, err := r.pool.Query(ctx, query, courseID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM school.students WHERE student_id = $1)`, id).
		Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM school.students`).Scan(&count)
	return count, err
}

// Save upserts the student row and replaces its course enrollments in
// one transaction.
func (r *PostgresRepository) Save(ctx context.Context, s Student) (Student, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Student{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO school.students (student_id, first_name, last_name, group_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id) DO UPDATE SET
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   group_id = EXCLUDED.group_id`,
		s.ID, s.FirstName, s.LastName, s.GroupID)
	if err != nil {
		return Student{}, err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM school.students_courses WHERE student_id = $1`, s.ID)
	if err != nil {
		return Student{}, err
	}
	for _, courseID := range s.CourseIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO school.students_courses (student_id, course_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			s.ID, courseID)
		if err != nil {
			return Student{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM school.students WHERE student_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM school.students`)
	return err
}

func (r *PostgresRepository) collect(ctx context.Context, rows pgx.Rows) ([]Student, error) {
	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.GroupID); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Student, len(students))
	for i := range students {
		refs[i] = &students[i]
	}
	if err := r.loadCourseIDs(ctx, refs); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *PostgresRepository) loadCourseIDs(ctx context.Context, students []*Student) error {
	if len(students) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(students))
	byID := make(map[uuid.UUID]*Student, len(students))
	for i, s := range students {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	rows, err := r.pool.Query(ctx,
		`SELECT student_id, course_id FROM school.students_courses
		 WHERE student_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, courseID uuid.UUID
		if err := rows.Scan(&studentID, &courseID); err != nil {
			return err
		}
		if s, ok := byID[studentID]; ok {
			s.CourseIDs = append(s.CourseIDs, courseID)
		}
	}
	return rows.Err()
}
