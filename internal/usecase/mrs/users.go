package mrs

import (
	"context"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/google/uuid"
)

// GetAllUsers возвращает всех пользователей
func (s *Service) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, s.storageErr("list users", err)
	}
	return users, nil
}

// GetUserByID возвращает пользователя или domain.ErrUserNotFound
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("get user", err)
	}
	return user, nil
}

// GetUserByName возвращает первого пользователя с указанной фамилией
func (s *Service) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	user, err := s.userRepo.GetByName(ctx, name)
	if err != nil {
		return nil, s.storageErr("get user by name", err)
	}
	return user, nil
}

// CreateUser создает пользователя
func (s *Service) CreateUser(ctx context.Context, name, firstName string, birthdate time.Time) (*domain.User, error) {
	user, err := domain.NewUser(name, firstName, birthdate)
	if err != nil {
		return nil, err
	}
	if err := user.AssignID(uuid.New()); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, s.storageErr("save user", err)
	}

	s.logger.Info("User created", map[string]interface{}{
		"user_id": user.MustID(),
	})

	return user, nil
}

// UpdateUser полностью заменяет имя, фамилию и дату рождения существующего пользователя
func (s *Service) UpdateUser(ctx context.Context, user *domain.User) error {
	id, err := user.ID()
	if err != nil {
		return err
	}

	unlock, err := s.lock(ctx, userKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return s.storageErr("get user", err)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return s.storageErr("save user", err)
	}

	s.logger.Info("User updated", map[string]interface{}{
		"user_id": id,
	})

	return nil
}

// DeleteUser удаляет пользователя; пользователя с активными прокатами удалить нельзя
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.lock(ctx, userKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return s.storageErr("get user", err)
	}
	if user.HasRentals() {
		s.logger.Warn("Refusing to delete user with rentals", map[string]interface{}{
			"user_id": id,
			"rentals": user.RentalCount(),
		})
		return domain.ErrUserHasRentals
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return s.storageErr("delete user", err)
	}

	s.logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})

	return nil
}
