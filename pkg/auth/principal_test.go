package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-school/school-security/pkg/errors"
)

func TestRequirePermission(t *testing.T) {
	principal := NewPrincipal(uuid.New(), "alice", []string{"COURSE_READ", "GROUP_READ"})
	ctx := WithPrincipal(context.Background(), principal)

	assert.NoError(t, RequirePermission(ctx, "COURSE_READ"))

	err := RequirePermission(ctx, "COURSE_DELETE")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInsufficientPermissions))
	assert.Contains(t, err.Error(), "COURSE_DELETE")
}

func TestRequirePermissionWithoutPrincipal(t *testing.T) {
	err := RequirePermission(context.Background(), "COURSE_READ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestPermissionsSorted(t *testing.T) {
	principal := NewPrincipal(uuid.New(), "alice", []string{"B", "A", "C"})
	assert.Equal(t, []string{"A", "B", "C"}, principal.Permissions())
}

func TestHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	match, err := hasher.Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHasherRejectsEmptyPassword(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("")
	assert.Error(t, err)
}
