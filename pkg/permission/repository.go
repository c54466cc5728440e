package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simple-school/school-security/pkg/pagination"
)

// ErrPermissionNotFound is returned by repositories when no permission
// exists for the given name.
var ErrPermissionNotFound = errors.New("permission not found")

// Repository defines the data access contract for permissions. The
// permission name is the identifier.
type Repository interface {
	FindByName(ctx context.Context, name string) (Permission, error)
	FindAll(ctx context.Context, page pagination.Page) ([]Permission, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, p Permission) (Permission, error)
	DeleteByName(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
}

var sortColumns = map[string]string{
	"name":        "permission_name",
	"description": "permission_description",
}

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-based permission repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`SELECT permission_name, permission_description
		 FROM school.permissions WHERE permission_name = $1`, name).
		Scan(&p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, ErrPermissionNotFound
		}
		return Permission{}, err
	}
	return p, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, page pagination.Page) ([]Permission, error) {
	query := fmt.Sprintf(
		`SELECT permission_name, permission_description
		 FROM school.permissions %s LIMIT $1 OFFSET $2`,
		page.OrderBy(sortColumns, "permission_name ASC"))

	rows, err := r.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.Name, &p.Description); err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}

func (r *PostgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM school.permissions WHERE permission_name = $1)`, name).
		Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM school.permissions`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) Save(ctx context.Context, p Permission) (Permission, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO school.permissions (permission_name, permission_description)
		 VALUES ($1, $2)
		 ON CONFLICT (permission_name) DO UPDATE SET
		   permission_description = EXCLUDED.permission_description`,
		p.Name, p.Description)
	if err != nil {
		return Permission{}, err
	}
	return p, nil
}

func (r *PostgresRepository) DeleteByName(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM school.permissions WHERE permission_name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM school.permissions`)
	return err
}
