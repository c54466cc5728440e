package course

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/auth"
	apperrors "github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
)

// Permissions gating each course operation.
const (
	PermCreate auth.Permission = "COURSE_CREATE"
	PermRead   auth.Permission = "COURSE_READ"
	PermUpdate auth.Permission = "COURSE_UPDATE"
	PermDelete auth.Permission = "COURSE_DELETE"
)

// Service provides permission-checked course operations.
type Service struct {
	repo Repository
}

// NewService creates a new course service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save persists a new course and returns it with the generated id.
func (s *Service) Save(ctx context.Context, dto CourseDto) (CourseDto, error) {
	if err := auth.RequirePermission(ctx, PermCreate); err != nil {
		return CourseDto{}, err
	}

	c := ToEntity(dto)
	c.ID = uuid.Nil // the store assigns the id
	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return CourseDto{}, apperrors.InternalWrap(err, "failed to save course")
	}
	return ToDto(saved), nil
}

// Replace overwrites the course at id wholesale with the DTO's fields.
func (s *Service) Replace(ctx context.Context, dto CourseDto, id uuid.UUID) (CourseDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return CourseDto{}, err
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return CourseDto{}, apperrors.InternalWrap(err, "failed to check course")
	}
	if !exists {
		return CourseDto{}, apperrors.NotFoundf("Course replace error. Course not found by id = %s", id)
	}

	c := ToEntity(dto)
	c.ID = id
	replaced, err := s.repo.Save(ctx, c)
	if err != nil {
		return CourseDto{}, apperrors.InternalWrap(err, "failed to replace course")
	}
	return ToDto(replaced), nil
}

// Update applies the DTO's non-null fields onto the stored course (patch).
func (s *Service) Update(ctx context.Context, dto CourseDto, id uuid.UUID) (CourseDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return CourseDto{}, err
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return CourseDto{}, err
	}

	ApplyUpdate(dto, &c)
	updated, err := s.repo.Save(ctx, c)
	if err != nil {
		return CourseDto{}, apperrors.InternalWrap(err, "failed to update course")
	}
	return ToDto(updated), nil
}

// FindByID returns the course at id.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (CourseDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return CourseDto{}, err
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return CourseDto{}, err
	}
	return ToDto(c), nil
}

// FindAll returns one page of courses.
func (s *Service) FindAll(ctx context.Context, page pagination.Page) ([]CourseDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return nil, err
	}

	courses, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to list courses")
	}
	return ToDtos(courses), nil
}

// DeleteByID removes the course at id.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return apperrors.NotFoundf("Course delete error. Course not found by id = %s", id)
		}
		return apperrors.InternalWrap(err, "failed to delete course")
	}
	return nil
}

// DeleteAll removes every course.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return apperrors.InternalWrap(err, "failed to delete courses")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (Course, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return Course{}, apperrors.NotFoundf("Course not found by id = %s", id)
		}
		return Course{}, apperrors.InternalWrap(err, "failed to load course")
	}
	return c, nil
}
