package group

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-school/school-security/pkg/auth"
	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
)

func testCtx(perms ...string) context.Context {
	principal := auth.NewPrincipal(uuid.New(), "tester", perms)
	return auth.WithPrincipal(context.Background(), principal)
}

func allPerms() []string {
	return []string{"GROUP_CREATE", "GROUP_READ", "GROUP_UPDATE", "GROUP_DELETE"}
}

func str(s string) *string { return &s }

func i64(n int64) *int64 { return &n }

func TestSaveAndFindByID(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	saved, err := svc.Save(ctx, GroupDto{Name: str("AA-11")})
	require.NoError(t, err)
	require.NotNil(t, saved.ID)
	assert.Equal(t, "AA-11", *saved.Name)

	found, err := svc.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func TestReplaceNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	id := uuid.New()
	_, err := svc.Replace(ctx, GroupDto{Name: str("BB-22")}, id)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Group replace error. Group not found by id = "+id.String())
}

func TestUpdateAllNilIsNoop(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	saved, err := svc.Save(ctx, GroupDto{Name: str("AA-11")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, GroupDto{}, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, updated)
}

func TestDeleteByIDNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	id := uuid.New()
	err := svc.DeleteByID(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Group delete error. Group not found by id = "+id.String())
}

func TestFindAllWithoutFilter(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	for _, name := range []string{"AA-11", "BB-22"} {
		_, err := svc.Save(ctx, GroupDto{Name: str(name)})
		require.NoError(t, err)
	}

	groups, err := svc.FindAll(ctx, nil, pagination.Page{Size: 10})
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestFindAllFiltersByNumberStudents(t *testing.T) {
	ctx := testCtx(allPerms()...)
	repo := NewInMemoryRepository()
	svc := NewService(repo)

	small, err := svc.Save(ctx, GroupDto{Name: str("AA-11")})
	require.NoError(t, err)
	big, err := svc.Save(ctx, GroupDto{Name: str("BB-22")})
	require.NoError(t, err)

	counts := map[uuid.UUID]int64{*small.ID: 3, *big.ID: 15}
	repo.StudentCount = func(groupID uuid.UUID) int64 { return counts[groupID] }

	groups, err := svc.FindAll(ctx, i64(10), pagination.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "AA-11", *groups[0].Name)

	groups, err = svc.FindAll(ctx, i64(3), pagination.Page{Size: 10})
	require.NoError(t, err)
	assert.Empty(t, groups, "bound is exclusive")
}

func TestMissingPermissionRejected(t *testing.T) {
	ctx := testCtx("GROUP_READ")
	repo := NewInMemoryRepository()
	svc := NewService(repo)

	_, err := svc.Save(ctx, GroupDto{Name: str("AA-11")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientPermissions))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestValidateMessages(t *testing.T) {
	err := GroupDto{}.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The group name must not be null and must contain at least one non-whitespace character")

	err = GroupDto{Name: str("  ")}.Validate(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The group name must contain at least one non-whitespace character. Can be null")

	assert.NoError(t, GroupDto{}.Validate(false))
}
