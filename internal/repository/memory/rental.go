package memory

import (
	"context"
	"fmt"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
)

// rentalRepository - in-memory реализация RentalRepository
type rentalRepository struct {
	store *Store
}

// NewRentalRepository создает репозиторий прокатов поверх общего хранилища
func NewRentalRepository(store *Store) repository.RentalRepository {
	return &rentalRepository{store: store}
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rental, ok := r.store.rentals.get(id)
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	return rental, nil
}

func (r *rentalRepository) List(ctx context.Context) ([]*domain.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.rentals.all(), nil
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rentals := make([]*domain.Rental, 0)
	for _, rental := range r.store.rentals.all() {
		if rental.User().MustID() == userID {
			rentals = append(rentals, rental)
		}
	}
	return rentals, nil
}

func (r *rentalRepository) Save(ctx context.Context, rental *domain.Rental) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := rental.ID()
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.rentals.get(id); ok {
		return fmt.Errorf("rental %s already exists", id)
	}

	movieID := rental.Movie().MustID()
	movie, ok := r.store.movies.get(movieID)
	if !ok {
		return domain.ErrMovieNotFound
	}
	if _, ok := r.store.users.get(rental.User().MustID()); !ok {
		return domain.ErrUserNotFound
	}

	movie.SetRented(true)
	r.store.rentals.put(id, rental)
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, rental *domain.Rental) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := rental.ID()
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.rentals.remove(id) {
		return domain.ErrRentalNotFound
	}
	if movie, ok := r.store.movies.get(rental.Movie().MustID()); ok {
		movie.SetRented(false)
	}
	return nil
}
