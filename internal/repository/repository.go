package repository

import (
	"context"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/google/uuid"
)

// MovieFilter - параметры выборки фильмов
type MovieFilter struct {
	// Rented - nil означает все фильмы
	Rented *bool
}

// Matches проверяет, подходит ли фильм под фильтр
func (f MovieFilter) Matches(m *domain.Movie) bool {
	return f.Rented == nil || *f.Rented == m.IsRented()
}

// MovieRepository определяет методы для работы с фильмами
type MovieRepository interface {
	// GetByID возвращает фильм по ID или domain.ErrMovieNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)

	// List возвращает фильмы, подходящие под фильтр
	List(ctx context.Context, filter MovieFilter) ([]*domain.Movie, error)

	// Save создает фильм или заменяет атрибуты существующего (флаг проката не меняется)
	Save(ctx context.Context, movie *domain.Movie) error

	// Delete удаляет фильм
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// GetByID возвращает пользователя вместе с его прокатами или domain.ErrUserNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByName возвращает первого пользователя с указанной фамилией
	GetByName(ctx context.Context, name string) (*domain.User, error)

	// List возвращает всех пользователей
	List(ctx context.Context) ([]*domain.User, error)

	// Save создает пользователя или заменяет атрибуты существующего
	Save(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя
	Delete(ctx context.Context, id uuid.UUID) error
}

// RentalRepository определяет методы для работы с прокатами
type RentalRepository interface {
	// GetByID возвращает прокат по ID или domain.ErrRentalNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)

	// List возвращает все прокаты
	List(ctx context.Context) ([]*domain.Rental, error)

	// ListByUser возвращает прокаты пользователя
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Rental, error)

	// Save сохраняет новый прокат и помечает фильм выданным
	Save(ctx context.Context, rental *domain.Rental) error

	// Delete удаляет прокат и снимает флаг проката с фильма
	Delete(ctx context.Context, rental *domain.Rental) error
}
