package student

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/pagination"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu       sync.RWMutex
	students map[uuid.UUID]Student
}

// NewInMemoryRepository creates a new in-memory student repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{students: make(map[uuid.UUID]Student)}
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return s, nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, page pagination.Page) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sorted(), page), nil
}

func (r *InMemoryRepository) FindByCourseID(ctx context.Context, courseID uuid.UUID, page pagination.Page) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var students []Student
	for _, s := range r.sorted() {
		for _, id := range s.CourseIDs {
			if id == courseID {
				students = append(students, s)
				break
			}
		}
	}
	return paginate(students, page), nil
}

func (r *InMemoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.students[id]
	return ok, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.students)), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, s Student) (Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.students[s.ID] = s
	return s, nil
}

func (r *InMemoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.students = make(map[uuid.UUID]Student)
	return nil
}

func (r *InMemoryRepository) sorted() []Student {
	students := make([]Student, 0, len(r.students))
	for _, s := range r.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].LastName < students[j].LastName
	})
	return students
}

func paginate(students []Student, page pagination.Page) []Student {
	offset := int(page.Offset())
	if offset >= len(students) {
		return nil
	}
	end := offset + int(page.Limit())
	if end > len(students) {
		end = len(students)
	}
	return students[offset:end]
}
