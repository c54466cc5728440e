package student

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/course"
	apperrors "github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/group"
	"github.com/simple-school/school-security/pkg/pagination"
)

// Permissions gating each student operation.
const (
	PermCreate auth.Permission = "STUDENT_CREATE"
	PermRead   auth.Permission = "STUDENT_READ"
	PermUpdate auth.Permission = "STUDENT_UPDATE"
	PermDelete auth.Permission = "STUDENT_DELETE"
)

// Service provides permission-checked student operations. Group and
// course repositories resolve the embedded DTOs on read.
type Service struct {
	repo    Repository
	groups  group.Repository
	courses course.Repository
}

// NewService creates a new student service.
func NewService(repo Repository, groups group.Repository, courses course.Repository) *Service {
	return &Service{repo: repo, groups: groups, courses: courses}
}

// Save persists a new student and returns it with the generated id.
func (s *Service) Save(ctx context.Context, dto StudentDto) (StudentDto, error) {
	if err := auth.RequirePermission(ctx, PermCreate); err != nil {
		return StudentDto{}, err
	}

	st := ToEntity(dto)
	st.ID = uuid.Nil
	saved, err := s.repo.Save(ctx, st)
	if err != nil {
		return StudentDto{}, apperrors.InternalWrap(err, "failed to save student")
	}
	return s.toDto(ctx, saved)
}

// Replace overwrites the student at id wholesale with the DTO's fields.
func (s *Service) Replace(ctx context.Context, dto StudentDto, id uuid.UUID) (StudentDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return StudentDto{}, err
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return StudentDto{}, apperrors.InternalWrap(err, "failed to check student")
	}
	if !exists {
		return StudentDto{}, apperrors.NotFoundf("Student replace error. Student not found by id = %s", id)
	}

	st := ToEntity(dto)
	st.ID = id
	replaced, err := s.repo.Save(ctx, st)
	if err != nil {
		return StudentDto{}, apperrors.InternalWrap(err, "failed to replace student")
	}
	return s.toDto(ctx, replaced)
}

// Update applies the DTO's non-null fields onto the stored student (patch).
func (s *Service) Update(ctx context.Context, dto StudentDto, id uuid.UUID) (StudentDto, error) {
	if err := auth.RequirePermission(ctx, PermUpdate); err != nil {
		return StudentDto{}, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return StudentDto{}, err
	}

	ApplyUpdate(dto, &st)
	updated, err := s.repo.Save(ctx, st)
	if err != nil {
		return StudentDto{}, apperrors.InternalWrap(err, "failed to update student")
	}
	return s.toDto(ctx, updated)
}

// FindByID returns the student at id.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (StudentDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return StudentDto{}, err
	}

	st, err := s.load(ctx, id)
	if err != nil {
		return StudentDto{}, err
	}
	return s.toDto(ctx, st)
}

// FindAll returns one page of students. When courseID is non-nil the
// listing narrows to students enrolled in that course.
func (s *Service) FindAll(ctx context.Context, courseID *uuid.UUID, page pagination.Page) ([]StudentDto, error) {
	if err := auth.RequirePermission(ctx, PermRead); err != nil {
		return nil, err
	}

	var (
		students []Student
		err      error
	)
	if courseID == nil {
		students, err = s.repo.FindAll(ctx, page)
	} else {
		students, err = s.repo.FindByCourseID(ctx, *courseID, page)
	}
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to list students")
	}

	dtos := make([]StudentDto, 0, len(students))
	for _, st := range students {
		dto, err := s.toDto(ctx, st)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// DeleteByID removes the student at id.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return apperrors.NotFoundf("Student delete error. Student not found by id = %s", id)
		}
		return apperrors.InternalWrap(err, "failed to delete student")
	}
	return nil
}

// DeleteAll removes every student.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := auth.RequirePermission(ctx, PermDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return apperrors.InternalWrap(err, "failed to delete students")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (Student, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return Student{}, apperrors.NotFoundf("Student not found by id = %s", id)
		}
		return Student{}, apperrors.InternalWrap(err, "failed to load student")
	}
	return st, nil
}

// toDto resolves the student's group and course references into embedded
// DTOs. Dangling references are dropped rather than failing the read.
func (s *Service) toDto(ctx context.Context, st Student) (StudentDto, error) {
	id := st.ID
	firstName := st.FirstName
	lastName := st.LastName
	dto := StudentDto{ID: &id, FirstName: &firstName, LastName: &lastName}

	if st.GroupID != nil {
		g, err := s.groups.FindByID(ctx, *st.GroupID)
		switch {
		case err == nil:
			gd := group.ToDto(g)
			dto.Group = &gd
		case errors.Is(err, group.ErrGroupNotFound):
		default:
			return StudentDto{}, apperrors.InternalWrap(err, "failed to load student group")
		}
	}

	for _, courseID := range st.CourseIDs {
		c, err := s.courses.FindByID(ctx, courseID)
		switch {
		case err == nil:
			dto.Courses = append(dto.Courses, course.ToDto(c))
		case errors.Is(err, course.ErrCourseNotFound):
		default:
			return StudentDto{}, apperrors.InternalWrap(err, "failed to load student courses")
		}
	}
	return dto, nil
}
