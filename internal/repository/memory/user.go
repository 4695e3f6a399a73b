package memory

import (
	"context"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
)

// userRepository - in-memory реализация UserRepository
type userRepository struct {
	store *Store
}

// NewUserRepository создает репозиторий пользователей поверх общего хранилища
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users.get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users.all() {
		if u.Name() == name {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.users.all(), nil
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := user.ID()
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.users.get(id); ok {
		if existing != user {
			existing.CopyAttributes(user)
		}
		return nil
	}

	r.store.users.put(id, user)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.users.remove(id) {
		return domain.ErrUserNotFound
	}
	return nil
}
