package student

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/course"
	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/group"
	"github.com/simple-school/school-security/pkg/pagination"
)

func testCtx(perms ...string) context.Context {
	principal := auth.NewPrincipal(uuid.New(), "tester", perms)
	return auth.WithPrincipal(context.Background(), principal)
}

func allPerms() []string {
	return []string{"STUDENT_CREATE", "STUDENT_READ", "STUDENT_UPDATE", "STUDENT_DELETE"}
}

func str(s string) *string { return &s }

type fixture struct {
	svc     *Service
	repo    *InMemoryRepository
	groups  *group.InMemoryRepository
	courses *course.InMemoryRepository
}

func newFixture() fixture {
	repo := NewInMemoryRepository()
	groups := group.NewInMemoryRepository()
	courses := course.NewInMemoryRepository()
	return fixture{
		svc:     NewService(repo, groups, courses),
		repo:    repo,
		groups:  groups,
		courses: courses,
	}
}

func TestSaveAndFindByID(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	saved, err := f.svc.Save(ctx, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")})
	require.NoError(t, err)
	require.NotNil(t, saved.ID)
	assert.Equal(t, "Ivan", *saved.FirstName)
	assert.Equal(t, "Petrov", *saved.LastName)
	assert.Nil(t, saved.Group)
	assert.Empty(t, saved.Courses)

	found, err := f.svc.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func TestSaveResolvesGroupAndCourses(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	g, err := f.groups.Save(ctx, group.Group{Name: "AA-11"})
	require.NoError(t, err)
	c, err := f.courses.Save(ctx, course.Course{Name: "Physics"})
	require.NoError(t, err)

	saved, err := f.svc.Save(ctx, StudentDto{
		FirstName: str("Ivan"),
		LastName:  str("Petrov"),
		Group:     &group.GroupDto{ID: &g.ID},
		Courses:   []course.CourseDto{{ID: &c.ID}},
	})
	require.NoError(t, err)

	require.NotNil(t, saved.Group)
	assert.Equal(t, "AA-11", *saved.Group.Name)
	require.Len(t, saved.Courses, 1)
	assert.Equal(t, "Physics", *saved.Courses[0].Name)
}

func TestReplaceNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	id := uuid.New()
	_, err := f.svc.Replace(ctx, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")}, id)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Student replace error. Student not found by id = "+id.String())
}

func TestUpdatePatchesFieldsIndependently(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	saved, err := f.svc.Save(ctx, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, StudentDto{LastName: str("Sidorov")}, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", *updated.FirstName, "absent first name is preserved")
	assert.Equal(t, "Sidorov", *updated.LastName)

	updated, err = f.svc.Update(ctx, StudentDto{FirstName: str("Petr")}, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Petr", *updated.FirstName)
	assert.Equal(t, "Sidorov", *updated.LastName, "absent last name is preserved")
}

func TestUpdateAllNilIsNoop(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	saved, err := f.svc.Save(ctx, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, StudentDto{}, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, updated)
}

func TestUpdateAssignsGroup(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	g, err := f.groups.Save(ctx, group.Group{Name: "AA-11"})
	require.NoError(t, err)

	saved, err := f.svc.Save(ctx, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, StudentDto{Group: &group.GroupDto{ID: &g.ID}}, *saved.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Group)
	assert.Equal(t, g.ID, *updated.Group.ID)
}

func TestFindAllFiltersByCourse(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	c, err := f.courses.Save(ctx, course.Course{Name: "Physics"})
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, StudentDto{
		FirstName: str("Ivan"),
		LastName:  str("Petrov"),
		Courses:   []course.CourseDto{{ID: &c.ID}},
	})
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, StudentDto{FirstName: str("Petr"), LastName: str("Sidorov")})
	require.NoError(t, err)

	students, err := f.svc.FindAll(ctx, &c.ID, pagination.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ivan", *students[0].FirstName)

	students, err = f.svc.FindAll(ctx, nil, pagination.Page{Size: 10})
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestDeleteByIDNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	f := newFixture()

	id := uuid.New()
	err := f.svc.DeleteByID(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Student delete error. Student not found by id = "+id.String())
}

func TestMissingPermissionRejected(t *testing.T) {
	ctx := testCtx("STUDENT_READ")
	f := newFixture()

	_, err := f.svc.Save(ctx, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientPermissions))

	count, err := f.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestValidateMessages(t *testing.T) {
	err := StudentDto{LastName: str("Petrov")}.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The student's first name must not be null and must contain at least one non-whitespace character")

	err = StudentDto{FirstName: str("Ivan")}.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The student's last name must not be null and must contain at least one non-whitespace character")

	err = StudentDto{FirstName: str("I"), LastName: str("Petrov")}.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The student's first name must consist of at least two characters")

	err = StudentDto{FirstName: str(" ")}.Validate(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The student's first name must contain at least one non-whitespace character. Can be null")

	assert.NoError(t, StudentDto{}.Validate(false))
	assert.NoError(t, StudentDto{FirstName: str("Ivan"), LastName: str("Petrov")}.Validate(true))
}
