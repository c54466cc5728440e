package permission

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
	return []string{"PERMISSION_CREATE", "PERMISSION_READ", "PERMISSION_UPDATE", "PERMISSION_DELETE"}
}

func str(s string) *string { return &s }

func TestSaveAndFindByName(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	saved, err := svc.Save(ctx, PermissionDto{
		Name:        str("REPORT_READ"),
		Description: str("Allows READ on REPORT"),
	})
	require.NoError(t, err)
	assert.Equal(t, "REPORT_READ", *saved.Name)

	found, err := svc.FindByName(ctx, "REPORT_READ")
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func TestSaveDuplicateNameConflicts(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Save(ctx, PermissionDto{Name: str("REPORT_READ")})
	require.NoError(t, err)

	_, err = svc.Save(ctx, PermissionDto{Name: str("REPORT_READ")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAlreadyExists))
}

func TestFindByNameNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	_, err := svc.FindByName(ctx, "REPORT_READ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Permission not found by id = REPORT_READ")
}

func TestUpdatePatchesDescription(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Save(ctx, PermissionDto{Name: str("REPORT_READ")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, PermissionDto{Description: str("Read-only reporting")}, "REPORT_READ")
	require.NoError(t, err)
	assert.Equal(t, "REPORT_READ", *updated.Name, "absent name is preserved")
	assert.Equal(t, "Read-only reporting", *updated.Description)
}

func TestReplaceNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Replace(ctx, PermissionDto{Name: str("REPORT_READ")}, "REPORT_READ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Permission replace error. Permission not found by id = REPORT_READ")
}

func TestDeleteByNameNotFound(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	err := svc.DeleteByName(ctx, "REPORT_READ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Permission delete error. Permission not found by id = REPORT_READ")
}

func TestFindAllSortedByName(t *testing.T) {
	ctx := testCtx(allPerms()...)
	svc := NewService(NewInMemoryRepository())

	for _, name := range []string{"B_READ", "A_READ", "C_READ"} {
		_, err := svc.Save(ctx, PermissionDto{Name: str(name)})
		require.NoError(t, err)
	}

	dtos, err := svc.FindAll(ctx, pagination.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, dtos, 3)
	assert.Equal(t, "A_READ", *dtos[0].Name)
	assert.Equal(t, "B_READ", *dtos[1].Name)
	assert.Equal(t, "C_READ", *dtos[2].Name)
}

func TestMissingPermissionRejected(t *testing.T) {
	ctx := testCtx("PERMISSION_READ")
	repo := NewInMemoryRepository()
	svc := NewService(repo)

	_, err := svc.Save(ctx, PermissionDto{Name: str("REPORT_READ")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientPermissions))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestValidateRequiresNameOnCreate(t *testing.T) {
	err := PermissionDto{}.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The permission name must not be null and must contain at least one non-whitespace character")

	err = PermissionDto{Name: str("  ")}.Validate(true)
	require.Error(t, err)

	assert.NoError(t, PermissionDto{}.Validate(false))
}
