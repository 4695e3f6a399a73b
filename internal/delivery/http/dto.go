package http

import (
	"fmt"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/usecase/mrs"
	"github.com/google/uuid"
)

// MovieResponse - фильм в ответе API
type MovieResponse struct {
	ID            string `json:"id"`
	Rented        bool   `json:"rented"`
	Title         string `json:"title"`
	ReleaseDate   string `json:"releaseDate"`
	PriceCategory string `json:"priceCategory"`
	AgeRating     int    `json:"ageRating"`
}

// UserResponse - пользователь в ответе API
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	BirthDate string `json:"birthDate"`
}

// RentalResponse - прокат в ответе API; стоимость считается на момент запроса
type RentalResponse struct {
	ID         string        `json:"id"`
	MovieID    string        `json:"movieId"`
	Movie      MovieResponse `json:"movie"`
	UserID     string        `json:"userId"`
	User       UserResponse  `json:"user"`
	RentalDate string        `json:"rentalDate"`
	RentalDays int           `json:"rentalDays"`
	RentalFee  float64       `json:"rentalFee"`
}

// UserRentalsResponse - прокаты пользователя с итогом
type UserRentalsResponse struct {
	User                 UserResponse     `json:"user"`
	Rentals              []RentalResponse `json:"rentals"`
	Charge               float64          `json:"charge"`
	FrequentRenterPoints int              `json:"frequentRenterPoints"`
}

// MovieRequest - тело POST/PUT /movies. Поле rented принимается, но игнорируется.
type MovieRequest struct {
	ID            string `json:"id,omitempty"`
	Rented        *bool  `json:"rented,omitempty"`
	Title         string `json:"title"`
	ReleaseDate   string `json:"releaseDate"`
	PriceCategory string `json:"priceCategory"`
	AgeRating     int    `json:"ageRating"`
}

// UserRequest - тело POST/PUT /users
type UserRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	BirthDate string `json:"birthDate"`
}

// RentalRequest - тело POST /rentals; пустая дата означает сегодня
type RentalRequest struct {
	UserID     string `json:"userId"`
	MovieID    string `json:"movieId"`
	RentalDate string `json:"rentalDate,omitempty"`
}

func newMovieResponse(m *domain.Movie) MovieResponse {
	return MovieResponse{
		ID:            idString(m.ID()),
		Rented:        m.IsRented(),
		Title:         m.Title(),
		ReleaseDate:   domain.FormatDate(m.ReleaseDate()),
		PriceCategory: m.PriceCategory().String(),
		AgeRating:     m.AgeRating(),
	}
}

func newMovieResponses(movies []*domain.Movie) []MovieResponse {
	result := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		result = append(result, newMovieResponse(m))
	}
	return result
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        idString(u.ID()),
		Name:      u.Name(),
		FirstName: u.FirstName(),
		BirthDate: domain.FormatDate(u.Birthdate()),
	}
}

func newUserResponses(users []*domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, newUserResponse(u))
	}
	return result
}

func newRentalResponse(r *domain.Rental) RentalResponse {
	movie := newMovieResponse(r.Movie())
	user := newUserResponse(r.User())
	return RentalResponse{
		ID:         idString(r.ID()),
		MovieID:    movie.ID,
		Movie:      movie,
		UserID:     user.ID,
		User:       user,
		RentalDate: domain.FormatDate(r.RentalDate()),
		RentalDays: r.RentalDays(),
		RentalFee:  r.Fee(),
	}
}

func newRentalResponses(rentals []*domain.Rental) []RentalResponse {
	result := make([]RentalResponse, 0, len(rentals))
	for _, r := range rentals {
		result = append(result, newRentalResponse(r))
	}
	return result
}

func newUserRentalsResponse(ur *mrs.UserRentals) UserRentalsResponse {
	return UserRentalsResponse{
		User:                 newUserResponse(ur.User),
		Rentals:              newRentalResponses(ur.Rentals),
		Charge:               ur.Charge,
		FrequentRenterPoints: ur.FrequentRenterPoints,
	}
}

func idString(id uuid.UUID, err error) string {
	if err != nil {
		return ""
	}
	return id.String()
}

// parseDateField разбирает дату из запроса в ValidationError с именем поля
func parseDateField(field, value string) (time.Time, error) {
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{
			Field: field,
			Msg:   fmt.Sprintf("%s must be a date in format YYYY-MM-DD", field),
		}
	}
	return t, nil
}

// parseBodyID проверяет, что ID из тела совпадает с ID из пути
func parseBodyID(bodyID string, pathID uuid.UUID) error {
	if bodyID == "" {
		return nil
	}
	id, err := uuid.Parse(bodyID)
	if err != nil || id != pathID {
		return &domain.ValidationError{Field: "id", Msg: "id in body does not match id in path"}
	}
	return nil
}
