package group

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/pagination"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]Group

	// StudentCount resolves the enrollment count per group for the
	// FindByNumberStudents query; nil counts every group as empty.
	StudentCount func(groupID uuid.UUID) int64
}

// NewInMemoryRepository creates a new in-memory group repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{groups: make(map[uuid.UUID]Group)}
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	if !ok {
		return Group{}, ErrGroupNotFound
	}
	return g, nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, page pagination.Page) ([]Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sorted(), page), nil
}

func (r *InMemoryRepository) FindByNumberStudents(ctx context.Context, numberStudents int64, page pagination.Page) ([]Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var groups []Group
	for _, g := range r.sorted() {
		var count int64
		if r.StudentCount != nil {
			count = r.StudentCount(g.ID)
		}
		if count < numberStudents {
			groups = append(groups, g)
		}
	}
	return paginate(groups, page), nil
}

func (r *InMemoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.groups[id]
	return ok, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.groups)), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, g Group) (Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.groups[g.ID] = g
	return g, nil
}

func (r *InMemoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return ErrGroupNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups = make(map[uuid.UUID]Group)
	return nil
}

func (r *InMemoryRepository) sorted() []Group {
	groups := make([]Group, 0, len(r.groups))
	for _, g := range r.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

func paginate(groups []Group, page pagination.Page) []Group {
	offset := int(page.Offset())
	if offset >= len(groups) {
		return nil
	}
	end := offset + int(page.Limit())
	if end > len(groups) {
		end = len(groups)
	}
	return groups[offset:end]
}
