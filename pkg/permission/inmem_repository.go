package permission

import (
	"context"
	"sort"
	"sync"

	"github.com/simple-school/school-security/pkg/pagination"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu          sync.RWMutex
	permissions map[string]Permission
}

// NewInMemoryRepository creates a new in-memory permission repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{permissions: make(map[string]Permission)}
}

func (r *InMemoryRepository) FindByName(ctx context.Context, name string) (Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.permissions[name]
	if !ok {
		return Permission{}, ErrPermissionNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, page pagination.Page) ([]Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	permissions := make([]Permission, 0, len(r.permissions))
	for _, p := range r.permissions {
		permissions = append(permissions, p)
	}
	sort.Slice(permissions, func(i, j int) bool {
		return permissions[i].Name < permissions[j].Name
	})

	offset := int(page.Offset())
	if offset >= len(permissions) {
		return nil, nil
	}
	end := offset + int(page.Limit())
	if end > len(permissions) {
		end = len(permissions)
	}
	return permissions[offset:end], nil
}

func (r *InMemoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.permissions[name]
	return ok, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.permissions)), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, p Permission) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.permissions[p.Name] = p
	return p, nil
}

func (r *InMemoryRepository) DeleteByName(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.permissions[name]; !ok {
		return ErrPermissionNotFound
	}
	delete(r.permissions, name)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.permissions = make(map[string]Permission)
	return nil
}
