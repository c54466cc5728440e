package user

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/pagination"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[uuid.UUID]User)}
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *InMemoryRepository) FindAll(ctx context.Context, page pagination.Page) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	offset := int(page.Offset())
	if offset >= len(users) {
		return nil, nil
	}
	end := offset + int(page.Limit())
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

func (r *InMemoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username && existing.ID != u.ID {
			return User{}, ErrUsernameTaken
		}
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[uuid.UUID]User)
	return nil
}
