package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// movieColumns - порядок колонок для scanMovie
const movieColumns = `m.id, m.title, m.rented, m.releasedate, m.pricecategory, m.agerating`

// movieRepository - PostgreSQL реализация MovieRepository
type movieRepository struct {
	db         *pgxpool.Pool
	categories *domain.PriceCategoryRegistry
}

// NewMovieRepository создает новый экземпляр movieRepository.
// Реестр нужен, чтобы восстановить ценовую категорию по имени из колонки pricecategory.
func NewMovieRepository(db *pgxpool.Pool, categories *domain.PriceCategoryRegistry) repository.MovieRepository {
	return &movieRepository{db: db, categories: categories}
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies m
		WHERE m.id = $1
	`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id), r.categories)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, err
	}

	return movie, nil
}

func (r *movieRepository) List(ctx context.Context, filter repository.MovieFilter) ([]*domain.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies m
		WHERE ($1::boolean IS NULL OR m.rented = $1)
		ORDER BY m.title, m.id
	`

	rows, err := r.db.Query(ctx, query, filter.Rented)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows, r.categories)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	return movies, rows.Err()
}

func (r *movieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	id, err := movie.ID()
	if err != nil {
		return err
	}

	// Флаг проката меняется только операциями проката: новый фильм всегда свободен
	query := `
		INSERT INTO movies (id, title, rented, releasedate, pricecategory, agerating)
		VALUES ($1, $2, false, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
			releasedate = EXCLUDED.releasedate,
			pricecategory = EXCLUDED.pricecategory,
			agerating = EXCLUDED.agerating
	`

	_, err = r.db.Exec(ctx, query,
		id,
		movie.Title(),
		movie.ReleaseDate(),
		movie.PriceCategory().String(),
		movie.AgeRating(),
	)

	return err
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM movies WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}

	return nil
}

// scanMovie собирает фильм из строки с колонками movieColumns
func scanMovie(row pgx.Row, categories *domain.PriceCategoryRegistry) (*domain.Movie, error) {
	var (
		id           uuid.UUID
		title        string
		rented       bool
		releaseDate  time.Time
		categoryName string
		ageRating    int
	)
	if err := row.Scan(&id, &title, &rented, &releaseDate, &categoryName, &ageRating); err != nil {
		return nil, err
	}

	return buildMovie(id, title, rented, releaseDate, categoryName, ageRating, categories)
}

func buildMovie(id uuid.UUID, title string, rented bool, releaseDate time.Time, categoryName string, ageRating int, categories *domain.PriceCategoryRegistry) (*domain.Movie, error) {
	pc, ok := categories.Lookup(categoryName)
	if !ok {
		return nil, fmt.Errorf("movie %s: unknown price category %q", id, categoryName)
	}

	movie, err := domain.NewMovie(title, releaseDate, pc, ageRating)
	if err != nil {
		return nil, fmt.Errorf("movie %s: %w", id, err)
	}
	if err := movie.AssignID(id); err != nil {
		return nil, err
	}
	movie.SetRented(rented)

	return movie, nil
}
