package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simple-school/school-security/pkg/pagination"
)

// ErrGroupNotFound is returned by repositories when no group exists for
// the given id.
var ErrGroupNotFound = errors.New("group not found")

// Repository defines the data access contract for groups.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Group, error)
	FindAll(ctx context.Context, page pagination.Page) ([]Group, error)
	// FindByNumberStudents returns groups whose enrolled-student count is
	// strictly below numberStudents.
	FindByNumberStudents(ctx context.Context, numberStudents int64, page pagination.Page) ([]Group, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, g Group) (Group, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

var sortColumns = map[string]string{
	"id":   "group_id",
	"name": "group_name",
}

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-based group repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Group, error) {
	var g Group
	err := r.pool.QueryRow(ctx,
		`SELECT group_id, group_name FROM school.groups WHERE group_id = $1`, id).
		Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, ErrGroupNotFound
		}
		return Group{}, err
	}
	return g, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, page pagination.Page) ([]Group, error) {
	query := fmt.Sprintf(
		`SELECT group_id, group_name FROM school.groups %s LIMIT $1 OFFSET $2`,
		page.OrderBy(sortColumns, "group_name ASC"))

	rows, err := r.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (r *PostgresRepository) FindByNumberStudents(ctx context.Context, numberStudents int64, page pagination.Page) ([]Group, error) {
	query := fmt.Sprintf(
		`SELECT g.group_id, g.group_name
		 FROM school.groups g
		 LEFT JOIN school.students s ON s.group_id = g.group_id
		 GROUP BY g.group_id
		 HAVING count(s.student_id) < $1
		 %s LIMIT $2 OFFSET $3`,
		page.OrderBy(map[string]string{"id": "g.group_id", "name": "g.group_name"}, "g.group_name ASC"))

	rows, err := r.pool.Query(ctx, query, numberStudents, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM school.groups WHERE group_id = $1)`, id).
		Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM school.groups`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) Save(ctx context.Context, g Group) (Group, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO school.groups (group_id, group_name)
		 VALUES ($1, $2)
		 ON CONFLICT (group_id) DO UPDATE SET group_name = EXCLUDED.group_name`,
		g.ID, g.Name)
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM school.groups WHERE group_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM school.groups`)
	return err
}

func scanGroups(rows pgx.Rows) ([]Group, error) {
	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
