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

// rentalRepository - PostgreSQL реализация RentalRepository
type rentalRepository struct {
	db         *pgxpool.Pool
	categories *domain.PriceCategoryRegistry
}

// NewRentalRepository создает новый экземпляр rentalRepository
func NewRentalRepository(db *pgxpool.Pool, categories *domain.PriceCategoryRegistry) repository.RentalRepository {
	return &rentalRepository{db: db, categories: categories}
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	var clientID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT clientid FROM rentals WHERE id = $1`, id).Scan(&clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRentalNotFound
		}
		return nil, err
	}

	// Загружаем все прокаты пользователя: список прокатов пользователя должен быть полным
	rentals, err := r.ListByUser(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, rental := range rentals {
		if rental.MustID() == id {
			return rental, nil
		}
	}

	return nil, domain.ErrRentalNotFound
}

func (r *rentalRepository) List(ctx context.Context) ([]*domain.Rental, error) {
	return loadRentals(ctx, r.db, r.categories, make(map[uuid.UUID]*domain.User), `TRUE`)
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Rental, error) {
	return loadRentals(ctx, r.db, r.categories, make(map[uuid.UUID]*domain.User), `r.clientid = $1`, userID)
}

// Save сохраняет прокат в одной транзакции с пометкой фильма.
// Если фильм уже выдан другим экземпляром сервиса, возвращается domain.ErrMovieNotRentable.
func (r *rentalRepository) Save(ctx context.Context, rental *domain.Rental) error {
	id, err := rental.ID()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE movies SET rented = true WHERE id = $1 AND rented = false`,
		rental.Movie().MustID(),
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrMovieNotRentable
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO rentals (id, movieid, clientid, rentaldate)
		VALUES ($1, $2, $3, $4)
	`,
		id,
		rental.Movie().MustID(),
		rental.User().MustID(),
		rental.RentalDate(),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *rentalRepository) Delete(ctx context.Context, rental *domain.Rental) error {
	id, err := rental.ID()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRentalNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE movies SET rented = false WHERE id = $1`, rental.Movie().MustID()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// loadRentals выбирает прокаты вместе с фильмами и клиентами и связывает их через RestoreRental.
// users - уже загруженные пользователи: их прокаты дописываются в существующие объекты.
func loadRentals(ctx context.Context, db *pgxpool.Pool, categories *domain.PriceCategoryRegistry, users map[uuid.UUID]*domain.User, where string, args ...any) ([]*domain.Rental, error) {
	query := `
		SELECT r.id, r.rentaldate, ` + userColumns + `, ` + movieColumns + `
		FROM rentals r
		JOIN clients c ON c.id = r.clientid
		JOIN movies m ON m.id = r.movieid
		WHERE ` + where + `
		ORDER BY r.rentaldate, r.id
	`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := make([]*domain.Rental, 0)
	for rows.Next() {
		var (
			rentalID     uuid.UUID
			rentalDate   time.Time
			clientID     uuid.UUID
			name         string
			firstName    string
			birthdate    time.Time
			movieID      uuid.UUID
			title        string
			rented       bool
			releaseDate  time.Time
			categoryName string
			ageRating    int
		)
		err := rows.Scan(
			&rentalID, &rentalDate,
			&clientID, &name, &firstName, &birthdate,
			&movieID, &title, &rented, &releaseDate, &categoryName, &ageRating,
		)
		if err != nil {
			return nil, err
		}

		user, ok := users[clientID]
		if !ok {
			if user, err = buildUser(clientID, name, firstName, birthdate); err != nil {
				return nil, err
			}
			users[clientID] = user
		}

		movie, err := buildMovie(movieID, title, rented, releaseDate, categoryName, ageRating, categories)
		if err != nil {
			return nil, err
		}

		rental, err := domain.RestoreRental(rentalID, user, movie, rentalDate)
		if err != nil {
			return nil, fmt.Errorf("rental %s: %w", rentalID, err)
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}
