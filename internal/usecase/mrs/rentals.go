package mrs

import (
	"context"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/google/uuid"
)

// GetAllRentals возвращает все активные прокаты
func (s *Service) GetAllRentals(ctx context.Context) ([]*domain.Rental, error) {
	rentals, err := s.rentalRepo.List(ctx)
	if err != nil {
		return nil, s.storageErr("list rentals", err)
	}
	return rentals, nil
}

// GetRentalByID возвращает прокат или domain.ErrRentalNotFound
func (s *Service) GetRentalByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("get rental", err)
	}
	return rental, nil
}

// GetRentalsByUser возвращает прокаты пользователя, их стоимость и бонусные баллы на сегодня
func (s *Service) GetRentalsByUser(ctx context.Context, userID uuid.UUID) (*UserRentals, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.storageErr("get user", err)
	}

	rentals, err := s.rentalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.storageErr("list user rentals", err)
	}

	result := &UserRentals{User: user, Rentals: rentals}
	for _, r := range rentals {
		result.Charge += r.Fee()
		result.FrequentRenterPoints += r.FrequentRenterPoints()
	}

	return result, nil
}

// CreateRental выдает фильм пользователю.
// Пользователь и фильм блокируются на время проверки правил и сохранения:
// два параллельных проката одного фильма не могут оба завершиться успехом.
func (s *Service) CreateRental(ctx context.Context, userID, movieID uuid.UUID, rentalDate time.Time) (*domain.Rental, error) {
	unlock, err := s.lock(ctx, userKey(userID), movieKey(movieID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.storageErr("get user", err)
	}
	movie, err := s.movieRepo.GetByID(ctx, movieID)
	if err != nil {
		return nil, s.storageErr("get movie", err)
	}

	rental, err := domain.NewRental(user, movie, rentalDate)
	if err != nil {
		s.logger.Warn("Rental rejected", map[string]interface{}{
			"user_id":  userID,
			"movie_id": movieID,
			"reason":   err.Error(),
		})
		return nil, err
	}

	if err := rental.AssignID(uuid.New()); err != nil {
		_ = rental.Return()
		return nil, err
	}

	if err := s.rentalRepo.Save(ctx, rental); err != nil {
		// Откатываем связи в памяти: фильм снова свободен, прокат убран у пользователя
		_ = rental.Return()
		return nil, s.storageErr("save rental", err)
	}

	s.logger.Info("Rental created", map[string]interface{}{
		"rental_id":   rental.MustID(),
		"user_id":     userID,
		"movie_id":    movieID,
		"rental_date": domain.FormatDate(rental.RentalDate()),
	})

	return rental, nil
}

// ReturnRental завершает прокат. Неизвестный ID дает domain.ErrRentalNotFound.
func (s *Service) ReturnRental(ctx context.Context, id uuid.UUID) error {
	unlockRental, err := s.lock(ctx, rentalKey(id))
	if err != nil {
		return err
	}
	defer unlockRental()

	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return s.storageErr("get rental", err)
	}

	unlock, err := s.lock(ctx, userKey(rental.User().MustID()), movieKey(rental.Movie().MustID()))
	if err != nil {
		return err
	}
	defer unlock()

	// Сначала хранилище: при ошибке связи в памяти остаются нетронутыми
	if err := s.rentalRepo.Delete(ctx, rental); err != nil {
		return s.storageErr("delete rental", err)
	}

	if err := rental.Return(); err != nil {
		s.logger.Warn("Rental was already detached from user", map[string]interface{}{
			"rental_id": id,
			"error":     err.Error(),
		})
	}

	s.logger.Info("Rental returned", map[string]interface{}{
		"rental_id": id,
		"movie_id":  rental.Movie().MustID(),
	})

	return nil
}
