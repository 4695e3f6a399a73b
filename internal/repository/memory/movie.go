package memory

import (
	"context"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
)

// movieRepository - in-memory реализация MovieRepository
type movieRepository struct {
	store *Store
}

// NewMovieRepository создает репозиторий фильмов поверх общего хранилища
func NewMovieRepository(store *Store) repository.MovieRepository {
	return &movieRepository{store: store}
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movie, ok := r.store.movies.get(id)
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	return movie, nil
}

func (r *movieRepository) List(ctx context.Context, filter repository.MovieFilter) ([]*domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movies := make([]*domain.Movie, 0, r.store.movies.len())
	for _, m := range r.store.movies.all() {
		if filter.Matches(m) {
			movies = append(movies, m)
		}
	}
	return movies, nil
}

func (r *movieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := movie.ID()
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Существующий фильм обновляется на месте: на него ссылаются прокаты
	if existing, ok := r.store.movies.get(id); ok {
		if existing != movie {
			existing.CopyAttributes(movie)
		}
		return nil
	}

	r.store.movies.put(id, movie)
	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.movies.remove(id) {
		return domain.ErrMovieNotFound
	}
	return nil
}
