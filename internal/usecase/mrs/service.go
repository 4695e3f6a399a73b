package mrs

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/lock"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/frontandrew/movierental/internal/repository"
	"github.com/google/uuid"
)

// MRSServices - сценарии видеопроката поверх любого хранилища.
// Нулевая ошибка означает успех; ошибки принадлежат таксономии domain.
type MRSServices interface {
	GetAllMovies(ctx context.Context) ([]*domain.Movie, error)
	GetMoviesByRented(ctx context.Context, rented bool) ([]*domain.Movie, error)
	GetMovieByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	CreateMovie(ctx context.Context, title string, releaseDate time.Time, category string, ageRating int) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, movie *domain.Movie) error
	DeleteMovie(ctx context.Context, id uuid.UUID) error

	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	CreateUser(ctx context.Context, name, firstName string, birthdate time.Time) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	GetAllRentals(ctx context.Context) ([]*domain.Rental, error)
	GetRentalByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	GetRentalsByUser(ctx context.Context, userID uuid.UUID) (*UserRentals, error)
	CreateRental(ctx context.Context, userID, movieID uuid.UUID, rentalDate time.Time) (*domain.Rental, error)
	ReturnRental(ctx context.Context, id uuid.UUID) error
}

// UserRentals - текущие прокаты пользователя с итоговой стоимостью
type UserRentals struct {
	User                 *domain.User
	Rentals              []*domain.Rental
	Charge               float64
	FrequentRenterPoints int
}

// Service содержит бизнес-логику видеопроката
type Service struct {
	movieRepo  repository.MovieRepository
	userRepo   repository.UserRepository
	rentalRepo repository.RentalRepository
	categories *domain.PriceCategoryRegistry
	locker     lock.Locker
	logger     logger.Logger
}

var _ MRSServices = (*Service)(nil)

// NewService создает новый экземпляр MRS сервиса
func NewService(
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	rentalRepo repository.RentalRepository,
	categories *domain.PriceCategoryRegistry,
	locker lock.Locker,
	logger logger.Logger,
) *Service {
	return &Service{
		movieRepo:  movieRepo,
		userRepo:   userRepo,
		rentalRepo: rentalRepo,
		categories: categories,
		locker:     locker,
		logger:     logger.With("component", "mrs"),
	}
}

// Ключи блокировок
func movieKey(id uuid.UUID) string  { return "movie:" + id.String() }
func userKey(id uuid.UUID) string   { return "user:" + id.String() }
func rentalKey(id uuid.UUID) string { return "rental:" + id.String() }

// lock захватывает ключи; ошибка блокировки считается ошибкой хранилища
func (s *Service) lock(ctx context.Context, keys ...string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, keys...)
	if err != nil {
		s.logger.Error("Failed to acquire lock", map[string]interface{}{
			"keys":  keys,
			"error": err.Error(),
		})
		return nil, domain.NewStorageError("lock", err)
	}
	return unlock, nil
}

// storageErr пропускает ошибки предметной области как есть, остальное оборачивает в StorageError
func (s *Service) storageErr(op string, err error) error {
	if isDomainError(err) {
		return err
	}

	s.logger.Error("Storage operation failed", map[string]interface{}{
		"op":    op,
		"error": err.Error(),
	})
	return domain.NewStorageError(op, err)
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrRentalRule,
		domain.ErrConflict,
		domain.ErrState,
		domain.ErrStorage,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
