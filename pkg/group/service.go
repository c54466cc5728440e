package group

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/auth"
	apperrors "github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
)

// Permissions gating each group operation.
const (
	PermCreate auth.Permission = "GROUP_CREATE"
	PermRead   auth.Permission = "GROUP_READ"
	PermUpdate auth.Permission = "GROUP_UPDATE"
	PermDelete auth.Permission = "GROUP_DELETE"
)

// Service provides permission-checked group operations.
type Service struct {
	repo Repository
}

// NewService creates a new group service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save persists a new group and returns it with the generated id.
func (s *Service) Save(ctx context.Context, dto GroupDto) (GroupDto, error) {
	if err := auth.RequirePermission(ctx, PermCreate); err != nil {
		return GroupDto{}, err
	}

	g := ToEntity(dto)
	g.ID = uuid.Nil
	saved, err := s.repo.Save(ctx, g)
	if err != nil {
		return GroupDto{}, apperrors.InternalWrap(err, "failed to save group")
	}
	return ToDto(saved), nil
}

// Replace overwrites the group at id wholesale with the DTO's fields.
func (s *Service) Replace(ctx context.Context, dto GroupDto, id uuid.UUID) (GroupDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return GroupDto{}, err
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return GroupDto{}, apperrors.InternalWrap(err, "failed to check group")
	}
	if !exists {
		return GroupDto{}, apperrors.NotFoundf("Group replace error. Group not found by id = %s", id)
	}

	g := ToEntity(dto)
	g.ID = id
	replaced, err := s.repo.Save(ctx, g)
	if err != nil {
		return GroupDto{}, apperrors.InternalWrap(err, "failed to replace group")
	}
	return ToDto(replaced), nil
}

// Update applies the DTO's non-null fields onto the stored group (patch).
func (s *Service) Update(ctx context.Context, dto GroupDto, id uuid.UUID) (GroupDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return GroupDto{}, err
	}

	g, err := s.load(ctx, id)
	if err != nil {
		return GroupDto{}, err
	}

	ApplyUpdate(dto, &g)
	updated, err := s.repo.Save(ctx, g)
	if err != nil {
		return GroupDto{}, apperrors.InternalWrap(err, "failed to update group")
	}
	return ToDto(updated), nil
}

// FindByID returns the group at id.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (GroupDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return GroupDto{}, err
	}

	g, err := s.load(ctx, id)
	if err != nil {
		return GroupDto{}, err
	}
	return ToDto(g), nil
}

// FindAll returns one page of groups. When numberStudents is non-nil the
// listing narrows to groups with fewer enrolled students than the bound.
func (s *Service) FindAll(ctx context.Context, numberStudents *int64, page pagination.Page) ([]GroupDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return nil, err
	}

	var (
		groups []Group
		err    error
	)
	if numberStudents == nil {
		groups, err = s.repo.FindAll(ctx, page)
	} else {
		groups, err = s.repo.FindByNumberStudents(ctx, *numberStudents, page)
	}
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to list groups")
	}
	return ToDtos(groups), nil
}

// DeleteByID removes the group at id.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return apperrors.NotFoundf("Group delete error. Group not found by id = %s", id)
		}
		return apperrors.InternalWrap(err, "failed to delete group")
	}
	return nil
}

// DeleteAll removes every group.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return apperrors.InternalWrap(err, "failed to delete groups")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (Group, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return Group{}, apperrors.NotFoundf("Group not found by id = %s", id)
		}
		return Group{}, apperrors.InternalWrap(err, "failed to load group")
	}
	return g, nil
}
