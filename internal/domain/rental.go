package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxRentableMovies - максимальное количество одновременных прокатов одного пользователя
const MaxRentableMovies = 3

// Rental - прокат фильма пользователем.
// Прокат не владеет ни фильмом, ни пользователем, а только ссылается на них.
// Возвращенный прокат удаляется из списка пользователя и из хранилища.
type Rental struct {
	id Identity

	user       *User
	movie      *Movie
	rentalDate time.Time
}

// NewRental - единственный способ создать прокат с проверкой правил.
// Порядок проверок: пользователь, лимит прокатов, доступность фильма,
// возраст пользователя на дату проката, дата проката.
// При успехе фильм помечается выданным, прокат добавляется в список пользователя.
func NewRental(user *User, movie *Movie, rentalDate time.Time) (*Rental, error) {
	if user == nil {
		return nil, ErrUserNull
	}

	// Держим блокировку пользователя до конца: проверка лимита и добавление атомарны
	user.mu.Lock()
	defer user.mu.Unlock()

	if len(user.rentals) >= MaxRentableMovies {
		return nil, ErrTooManyRentals
	}
	if movie == nil || movie.IsRented() {
		return nil, ErrMovieNotRentable
	}
	// Для пустой даты возраст не определен
	if rentalDate.IsZero() {
		return nil, ErrRentalDateInFuture
	}
	rentalDate = DateOf(rentalDate)
	if YearsBetween(user.birthdate, rentalDate) < movie.AgeRating() {
		return nil, ErrUnderage
	}
	if rentalDate.After(Today()) {
		return nil, ErrRentalDateInFuture
	}

	// Фильм мог быть выдан параллельно - проверка и установка одной операцией
	if !movie.markRented() {
		return nil, ErrMovieNotRentable
	}

	r := &Rental{
		user:       user,
		movie:      movie,
		rentalDate: rentalDate,
	}
	user.rentals = append(user.rentals, r)
	return r, nil
}

// RestoreRental восстанавливает сохраненный прокат (фикстуры, строки БД) без проверки правил.
// Связи устанавливаются так же, как при создании.
func RestoreRental(id uuid.UUID, user *User, movie *Movie, rentalDate time.Time) (*Rental, error) {
	if user == nil {
		return nil, ErrUserNull
	}
	if movie == nil {
		return nil, ErrMovieNotRentable
	}
	if rentalDate.IsZero() {
		return nil, ErrRentalDateInFuture
	}

	r := &Rental{
		user:       user,
		movie:      movie,
		rentalDate: DateOf(rentalDate),
	}
	if err := r.AssignID(id); err != nil {
		return nil, err
	}

	movie.SetRented(true)
	user.mu.Lock()
	user.rentals = append(user.rentals, r)
	user.mu.Unlock()

	return r, nil
}

// ID возвращает идентификатор или ErrIDNotSet
func (r *Rental) ID() (uuid.UUID, error) {
	return r.id.Get()
}

// MustID возвращает идентификатор опубликованного проката (uuid.Nil, если не назначен)
func (r *Rental) MustID() uuid.UUID {
	return r.id.value()
}

// AssignID назначает идентификатор один раз
func (r *Rental) AssignID(id uuid.UUID) error {
	return r.id.Assign(id)
}

func (r *Rental) User() *User {
	return r.user
}

func (r *Rental) Movie() *Movie {
	return r.movie
}

func (r *Rental) RentalDate() time.Time {
	return r.rentalDate
}

// RentalDays считает дни проката на момент вызова
func (r *Rental) RentalDays() int {
	return DaysBetween(r.rentalDate, Today())
}

// Fee считает стоимость проката на момент вызова (не кэшируется)
func (r *Rental) Fee() float64 {
	return r.movie.PriceCategory().Charge(r.RentalDays())
}

// FrequentRenterPoints считает бонусные баллы на момент вызова
func (r *Rental) FrequentRenterPoints() int {
	return r.movie.PriceCategory().FrequentRenterPoints(r.RentalDays())
}

// Return завершает прокат: фильм снова доступен, прокат убран из списка пользователя.
// Повторный возврат дает ErrRentalNotFound.
func (r *Rental) Return() error {
	if !r.user.removeRental(r) {
		return ErrRentalNotFound
	}
	r.movie.SetRented(false)
	return nil
}
