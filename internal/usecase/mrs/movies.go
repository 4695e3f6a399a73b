package mrs

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
)

// GetAllMovies возвращает все фильмы
func (s *Service) GetAllMovies(ctx context.Context) ([]*domain.Movie, error) {
	movies, err := s.movieRepo.List(ctx, repository.MovieFilter{})
	if err != nil {
		return nil, s.storageErr("list movies", err)
	}
	return movies, nil
}

// GetMoviesByRented возвращает выданные или свободные фильмы
func (s *Service) GetMoviesByRented(ctx context.Context, rented bool) ([]*domain.Movie, error) {
	movies, err := s.movieRepo.List(ctx, repository.MovieFilter{Rented: &rented})
	if err != nil {
		return nil, s.storageErr("list movies", err)
	}
	return movies, nil
}

// GetMovieByID возвращает фильм или domain.ErrMovieNotFound
func (s *Service) GetMovieByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("get movie", err)
	}
	return movie, nil
}

// CreateMovie создает фильм; категория ищется в реестре по точному имени
func (s *Service) CreateMovie(ctx context.Context, title string, releaseDate time.Time, category string, ageRating int) (*domain.Movie, error) {
	pc, ok := s.categories.Lookup(category)
	if !ok {
		s.logger.Warn("Unknown price category", map[string]interface{}{
			"category": category,
		})
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPriceCategory, category)
	}

	movie, err := domain.NewMovie(title, releaseDate, pc, ageRating)
	if err != nil {
		return nil, err
	}
	if err := movie.AssignID(uuid.New()); err != nil {
		return nil, err
	}

	if err := s.movieRepo.Save(ctx, movie); err != nil {
		return nil, s.storageErr("save movie", err)
	}

	s.logger.Info("Movie created", map[string]interface{}{
		"movie_id": movie.MustID(),
		"title":    movie.Title(),
		"category": pc.String(),
	})

	return movie, nil
}

// UpdateMovie полностью заменяет атрибуты существующего фильма.
// Флаг проката не меняется: им управляют прокаты.
func (s *Service) UpdateMovie(ctx context.Context, movie *domain.Movie) error {
	id, err := movie.ID()
	if err != nil {
		return err
	}

	unlock, err := s.lock(ctx, movieKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.movieRepo.GetByID(ctx, id); err != nil {
		return s.storageErr("get movie", err)
	}

	if err := s.movieRepo.Save(ctx, movie); err != nil {
		return s.storageErr("save movie", err)
	}

	s.logger.Info("Movie updated", map[string]interface{}{
		"movie_id": id,
	})

	return nil
}

// DeleteMovie удаляет фильм; выданный фильм удалить нельзя
func (s *Service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.lock(ctx, movieKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return s.storageErr("get movie", err)
	}
	if movie.IsRented() {
		s.logger.Warn("Refusing to delete rented movie", map[string]interface{}{
			"movie_id": id,
		})
		return domain.ErrMovieRented
	}

	if err := s.movieRepo.Delete(ctx, id); err != nil {
		return s.storageErr("delete movie", err)
	}

	s.logger.Info("Movie deleted", map[string]interface{}{
		"movie_id": id,
	})

	return nil
}
