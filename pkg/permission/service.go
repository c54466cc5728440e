package permission

import (
	"context"
	"errors"

	"github.com/simple-school/school-security/pkg/auth"
	apperrors "github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
)

// Permissions gating each permission-management operation.
const (
	PermCreate auth.Permission = "PERMISSION_CREATE"
	PermRead   auth.Permission = "PERMISSION_READ"
	PermUpdate auth.Permission = "PERMISSION_UPDATE"
	PermDelete auth.Permission = "PERMISSION_DELETE"
)

// Service provides permission-checked operations over the permission
// catalog itself.
type Service struct {
	repo Repository
}

// NewService creates a new permission service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save creates a new permission. The name is the identifier, so a
// duplicate name is a conflict rather than an update.
func (s *Service) Save(ctx context.Context, dto PermissionDto) (PermissionDto, error) {
	if err := auth.RequirePermission(ctx, PermCreate); err != nil {
		return PermissionDto{}, err
	}

	p := ToEntity(dto)
	exists, err := s.repo.ExistsByName(ctx, p.Name)
	if err != nil {
		return PermissionDto{}, apperrors.InternalWrap(err, "failed to check permission")
	}
	if exists {
		return PermissionDto{}, apperrors.AlreadyExists("permission", p.Name)
	}

	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		return PermissionDto{}, apperrors.InternalWrap(err, "failed to save permission")
	}
	return ToDto(saved), nil
}

// Replace overwrites the permission at name wholesale with the DTO's
// fields.
func (s *Service) Replace(ctx context.Context, dto PermissionDto, name string) (PermissionDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return PermissionDto{}, err
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return PermissionDto{}, apperrors.InternalWrap(err, "failed to check permission")
	}
	if !exists {
		return PermissionDto{}, apperrors.NotFoundf("Permission replace error. Permission not found by id = %s", name)
	}

	p := ToEntity(dto)
	p.Name = name
	replaced, err := s.repo.Save(ctx, p)
	if err != nil {
		return PermissionDto{}, apperrors.InternalWrap(err, "failed to replace permission")
	}
	return ToDto(replaced), nil
}

// Update applies the DTO's non-null fields onto the stored permission
// (patch).
func (s *Service) Update(ctx context.Context, dto PermissionDto, name string) (PermissionDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return PermissionDto{}, err
	}

	p, err := s.load(ctx, name)
	if err != nil {
		return PermissionDto{}, err
	}

	ApplyUpdate(dto, &p)
	updated, err := s.repo.Save(ctx, p)
	if err != nil {
		return PermissionDto{}, apperrors.InternalWrap(err, "failed to update permission")
	}
	return ToDto(updated), nil
}

// FindByName returns the permission at name.
func (s *Service) FindByName(ctx context.Context, name string) (PermissionDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return PermissionDto{}, err
	}

	p, err := s.load(ctx, name)
	if err != nil {
		return PermissionDto{}, err
	}
	return ToDto(p), nil
}

// FindAll returns one page of permissions.
func (s *Service) FindAll(ctx context.Context, page pagination.Page) ([]PermissionDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return nil, err
	}

	permissions, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to list permissions")
	}
	return ToDtos(permissions), nil
}

// DeleteByName removes the permission at name.
func (s *Service) DeleteByName(ctx context.Context, name string) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	err := s.repo.DeleteByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return apperrors.NotFoundf("Permission delete error. Permission not found by id = %s", name)
		}
		return apperrors.InternalWrap(err, "failed to delete permission")
	}
	return nil
}

// DeleteAll removes every permission.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return apperrors.InternalWrap(err, "failed to delete permissions")
	}
	return nil
}

func (s *Service) load(ctx context.Context, name string) (Permission, error) {
	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return Permission{}, apperrors.NotFoundf("Permission not found by id = %s", name)
		}
		return Permission{}, apperrors.InternalWrap(err, "failed to load permission")
	}
	return p, nil
}
