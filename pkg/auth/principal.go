package auth

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/errors"
)

// Permission is a named capability, e.g. "COURSE_READ".
type Permission string

// Action suffixes; every resource defines exactly one permission per action.
const (
	ActionCreate = "CREATE"
	ActionRead   = "READ"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type contextKey string

// PrincipalKey locates the authenticated principal in a request context.
const PrincipalKey contextKey = "principal"

// Principal is the authenticated identity making a request, carrying its
// resolved permission set.
type Principal struct {
	UserID   uuid.UUID
	Username string

	permissions map[Permission]struct{}
}

// NewPrincipal builds a principal from a user record and its granted
// permission names.
func NewPrincipal(userID uuid.UUID, username string, permissions []string) *Principal {
	set := make(map[Permission]struct{}, len(permissions))
	for _, p := range permissions {
		set[Permission(p)] = struct{}{}
	}
	return &Principal{
		UserID:      userID,
		Username:    username,
		permissions: set,
	}
}

// HasPermission reports whether the principal holds the given permission.
func (p *Principal) HasPermission(perm Permission) bool {
	_, ok := p.permissions[perm]
	return ok
}

// Permissions returns the principal's permission names, sorted.
func (p *Principal) Permissions() []string {
	names := make([]string, 0, len(p.permissions))
	for perm := range p.permissions {
		names = append(names, string(perm))
	}
	sort.Strings(names)
	return names
}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*Principal)
	return p, ok
}

// RequirePermission checks that the context carries a principal holding
// the given permission. Services call this before touching the store, so
// a missing permission never reaches the repository.
func RequirePermission(ctx context.Context, perm Permission) error {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return errors.Unauthorized("authentication required")
	}
	if !p.HasPermission(perm) {
		return errors.Newf(errors.ErrCodeInsufficientPermissions,
			"access denied: missing permission %s", perm)
	}
	return nil
}
