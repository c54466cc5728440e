package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/auth"
	apperrors "github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
	"github.com/simple-school/school-security/pkg/permission"
)

// Permissions gating each user-management operation.
const (
	PermCreate auth.Permission = "USER_CREATE"
	PermRead   auth.Permission = "USER_READ"
	PermUpdate auth.Permission = "USER_UPDATE"
	PermDelete auth.Permission = "USER_DELETE"
)

// Service provides permission-checked user operations. Passwords are
// hashed before they reach the repository.
type Service struct {
	repo        Repository
	permissions permission.Repository
	hasher      auth.PasswordHasher
}

// NewService creates a new user service.
func NewService(repo Repository, permissions permission.Repository, hasher auth.PasswordHasher) *Service {
	return &Service{repo: repo, permissions: permissions, hasher: hasher}
}

// Save persists a new user and returns it with the generated id.
func (s *Service) Save(ctx context.Context, dto UserDto) (UserDto, error) {
	if err := auth.RequirePermission(ctx, PermCreate); err != nil {
		return UserDto{}, err
	}

	u := ToEntity(dto)
	u.ID = uuid.Nil
	hash, err := s.hasher.Hash(*dto.Password)
	if err != nil {
		return UserDto{}, apperrors.InternalWrap(err, "failed to hash password")
	}
	u.PasswordHash = hash

	saved, err := s.repo.Save(ctx, u)
	if err != nil {
		return UserDto{}, s.saveError(err, u.Username)
	}
	return s.toDto(ctx, saved)
}

// Replace overwrites the user at id wholesale with the DTO's fields.
func (s *Service) Replace(ctx context.Context, dto UserDto, id uuid.UUID) (UserDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return UserDto{}, err
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return UserDto{}, apperrors.InternalWrap(err, "failed to check user")
	}
	if !exists {
		return UserDto{}, apperrors.NotFoundf("User replace error. User not found by id = %s", id)
	}

	u := ToEntity(dto)
	u.ID = id
	hash, err := s.hasher.Hash(*dto.Password)
	if err != nil {
		return UserDto{}, apperrors.InternalWrap(err, "failed to hash password")
	}
	u.PasswordHash = hash

	replaced, err := s.repo.Save(ctx, u)
	if err != nil {
		return UserDto{}, s.saveError(err, u.Username)
	}
	return s.toDto(ctx, replaced)
}

// Update applies the DTO's non-null fields onto the stored user (patch).
// The stored password hash is preserved unless a new password is given.
func (s *Service) Update(ctx context.Context, dto UserDto, id uuid.UUID) (UserDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return UserDto{}, err
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return UserDto{}, err
	}

	ApplyUpdate(dto, &u)
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			return UserDto{}, apperrors.InternalWrap(err, "failed to hash password")
		}
		u.PasswordHash = hash
	}

	updated, err := s.repo.Save(ctx, u)
	if err != nil {
		return UserDto{}, s.saveError(err, u.Username)
	}
	return s.toDto(ctx, updated)
}

// FindByID returns the user at id.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (UserDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return UserDto{}, err
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return UserDto{}, err
	}
	return s.toDto(ctx, u)
}

// FindAll returns one page of users.
func (s *Service) FindAll(ctx context.Context, page pagination.Page) ([]UserDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to list users")
	}

	dtos := make([]UserDto, 0, len(users))
	for _, u := range users {
		dto, err := s.toDto(ctx, u)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// DeleteByID removes the user at id.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperrors.NotFoundf("User delete error. User not found by id = %s", id)
		}
		return apperrors.InternalWrap(err, "failed to delete user")
	}
	return nil
}

// DeleteAll removes every user.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return apperrors.InternalWrap(err, "failed to delete users")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, apperrors.NotFoundf("User not found by id = %s", id)
		}
		return User{}, apperrors.InternalWrap(err, "failed to load user")
	}
	return u, nil
}

func (s *Service) saveError(err error, username string) error {
	if errors.Is(err, ErrUsernameTaken) {
		return apperrors.AlreadyExists("user", username)
	}
	return apperrors.InternalWrap(err, "failed to save user")
}

// toDto resolves the user's permission names into embedded DTOs. The
// password hash never leaves the service.
func (s *Service) toDto(ctx context.Context, u User) (UserDto, error) {
	id := u.ID
	username := u.Username
	dto := UserDto{ID: &id, Username: &username, Permissions: []permission.PermissionDto{}}

	for _, name := range u.Permissions {
		p, err := s.permissions.FindByName(ctx, name)
		switch {
		case err == nil:
			dto.Permissions = append(dto.Permissions, permission.ToDto(p))
		case errors.Is(err, permission.ErrPermissionNotFound):
		default:
			return UserDto{}, apperrors.InternalWrap(err, "failed to load user permissions")
		}
	}
	return dto, nil
}
