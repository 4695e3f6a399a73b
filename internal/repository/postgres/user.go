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

// userColumns - порядок колонок для scanUser
const userColumns = `c.id, c.name, c.firstname, c.birthdate`

// userRepository - PostgreSQL реализация UserRepository.
// Пользователи хранятся в таблице clients.
type userRepository struct {
	db         *pgxpool.Pool
	categories *domain.PriceCategoryRegistry
}

// NewUserRepository создает новый экземпляр userRepository
func NewUserRepository(db *pgxpool.Pool, categories *domain.PriceCategoryRegistry) repository.UserRepository {
	return &userRepository{db: db, categories: categories}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM clients c
		WHERE c.id = $1
	`

	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM clients c
		WHERE c.name = $1
		ORDER BY c.firstname, c.id
		LIMIT 1
	`

	return r.getOne(ctx, query, name)
}

// getOne загружает пользователя вместе с его прокатами
func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	users := map[uuid.UUID]*domain.User{user.MustID(): user}
	if _, err := loadRentals(ctx, r.db, r.categories, users, `r.clientid = $1`, user.MustID()); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM clients c
		ORDER BY c.name, c.firstname, c.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	byID := make(map[uuid.UUID]*domain.User)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
		byID[user.MustID()] = user
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Прокаты всех пользователей одним запросом
	if _, err := loadRentals(ctx, r.db, r.categories, byID, `TRUE`); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	id, err := user.ID()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO clients (id, name, firstname, birthdate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			firstname = EXCLUDED.firstname,
			birthdate = EXCLUDED.birthdate
	`

	_, err = r.db.Exec(ctx, query,
		id,
		user.Name(),
		user.FirstName(),
		user.Birthdate(),
	)

	return err
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// scanUser собирает пользователя из строки с колонками userColumns
func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id        uuid.UUID
		name      string
		firstName string
		birthdate time.Time
	)
	if err := row.Scan(&id, &name, &firstName, &birthdate); err != nil {
		return nil, err
	}

	return buildUser(id, name, firstName, birthdate)
}

func buildUser(id uuid.UUID, name, firstName string, birthdate time.Time) (*domain.User, error) {
	user, err := domain.RestoreUser(id, name, firstName, birthdate)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", id, err)
	}
	return user, nil
}
