package course

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/pagination"
)

// InMemoryRepository implements Repository using in-memory storage.
// Used by tests and the demo wiring.
type InMemoryRepository struct {
	mu      sync.RWMutex
	courses map[uuid.UUID]Course
}

// NewInMemoryRepository creates a new in-memory course repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{courses: make(map[uuid.UUID]Course)}
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrCourseNotFound
	}
	return c, nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, page pagination.Page) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]Course, 0, len(r.courses))
	for _, c := range r.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })

	return paginate(courses, page), nil
}

func (r *InMemoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.courses[id]
	return ok, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.courses)), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, c Course) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.courses[c.ID] = c
	return c, nil
}

func (r *InMemoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.courses = make(map[uuid.UUID]Course)
	return nil
}

func paginate(courses []Course, page pagination.Page) []Course {
	offset := int(page.Offset())
	if offset >= len(courses) {
		return nil
	}
	end := offset + int(page.Limit())
	if end > len(courses) {
		end = len(courses)
	}
	return courses[offset:end]
}
