package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simple-school/school-security/pkg/pagination"
)

var (
	// ErrUserNotFound is returned by repositories when no user exists
	// for the given id or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when a save would violate the
	// username uniqueness constraint.
	ErrUsernameTaken = errors.New("username already taken")
)

// Repository defines the data access contract for users.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	FindAll(ctx context.Context, page pagination.Page) ([]User, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, u User) (User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

var sortColumns = map[string]string{
	"id":       "user_id",
	"username": "user_username",
}

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-based user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, user_username, user_password
		 FROM school.users WHERE user_id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	if err := r.loadPermissions(ctx, []*User{&u}); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, user_username, user_password
		 FROM school.users WHERE user_username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	if err := r.loadPermissions(ctx, []*User{&u}); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, page pagination.Page) ([]User, error) {
	query := fmt.Sprintf(
		`SELECT user_id, user_username, user_password
		 FROM school.users %s LIMIT $1 OFFSET $2`,
		page.OrderBy(sortColumns, "user_username ASC"))

	rows, err := r.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*User, len(users))
	for i := range users {
		refs[i] = &users[i]
	}
	if err := r.loadPermissions(ctx, refs); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM school.users WHERE user_id = $1)`, id).
		Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM school.users`).Scan(&count)
	return count, err
}

// Save upserts the user row and replaces its permission grants in one
// transaction.
func (r *PostgresRepository) Save(ctx context.Context, u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO school.users (user_id, user_username, user_password)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		   user_username = EXCLUDED.user_username,
		   user_password = EXCLUDED.user_password`,
		u.ID, u.Username, u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM school.users_permissions WHERE user_id = $1`, u.ID)
	if err != nil {
		return User{}, err
	}
	for _, name := range u.Permissions {
		_, err = tx.Exec(ctx,
			`INSERT INTO school.users_permissions (user_id, permission_name)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			u.ID, name)
		if err != nil {
			return User{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM school.users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM school.users`)
	return err
}

func (r *PostgresRepository) loadPermissions(ctx context.Context, users []*User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(users))
	byID := make(map[uuid.UUID]*User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
	}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, permission_name FROM school.users_permissions
		 WHERE user_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var userID uuid.UUID
		var name string
		if err := rows.Scan(&userID, &name); err != nil {
			return err
		}
		if u, ok := byID[userID]; ok {
			u.Permissions = append(u.Permissions, name)
		}
	}
	return rows.Err()
}
