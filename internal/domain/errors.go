package domain

import "errors"

// Категории ошибок - используются во всех слоях приложения.
// Конкретные ошибки ниже сопоставляются со своей категорией через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrState      = errors.New("illegal state")
	ErrRentalRule = errors.New("rental rule violated")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError - нарушение инварианта сущности, всегда указывает атрибут
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StateError - чтение неназначенного или повторное назначение идентификатора
type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return e.Msg
}

func (e *StateError) Is(target error) bool {
	return target == ErrState
}

// RuleError - нарушение бизнес-правила при создании проката
type RuleError struct {
	Rule string
	Msg  string
}

func (e *RuleError) Error() string {
	return e.Msg
}

func (e *RuleError) Is(target error) bool {
	return target == ErrRentalRule
}

// kindError - ошибка с фиксированной категорией (not found, conflict)
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// StorageError оборачивает любую ошибку хранилища.
// Сервисный слой никогда не отдает наружу ошибки драйвера напрямую.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError оборачивает ошибку репозитория
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Movie errors
var (
	ErrMissingTitle         = &ValidationError{Field: "title", Msg: "title must not be empty"}
	ErrMissingReleaseDate   = &ValidationError{Field: "releaseDate", Msg: "release date must not be empty"}
	ErrMissingPriceCategory = &ValidationError{Field: "priceCategory", Msg: "price category must not be empty"}
	ErrUnknownPriceCategory = &ValidationError{Field: "priceCategory", Msg: "unknown price category"}
	ErrInvalidAgeRating     = &ValidationError{Field: "ageRating", Msg: "age rating must be in range [0, 18]"}
	ErrMovieNotFound        = &kindError{kind: ErrNotFound, msg: "movie not found"}
	ErrMovieRented          = &kindError{kind: ErrConflict, msg: "movie is rented"}
)

// User errors
var (
	ErrInvalidName      = &ValidationError{Field: "name", Msg: "name must have 1 to 40 characters"}
	ErrInvalidFirstName = &ValidationError{Field: "firstName", Msg: "first name must have 1 to 40 characters"}
	ErrInvalidBirthdate = &ValidationError{Field: "birthdate", Msg: "birthdate must not be in the future nor older than 120 years"}
	ErrUserNotFound     = &kindError{kind: ErrNotFound, msg: "user not found"}
	ErrUserHasRentals   = &kindError{kind: ErrConflict, msg: "user has active rentals"}
)

// Rental errors
var (
	ErrUserNull           = &RuleError{Rule: "user", Msg: "user must not be null"}
	ErrTooManyRentals     = &RuleError{Rule: "limit", Msg: "max. 3 movies rentable"}
	ErrMovieNotRentable   = &RuleError{Rule: "movie", Msg: "movie must not be null or is already rented"}
	ErrUnderage           = &RuleError{Rule: "age", Msg: "user under age: may not rent this movie"}
	ErrRentalDateInFuture = &RuleError{Rule: "date", Msg: "rental date must not be empty or in the future"}
	ErrRentalNotFound     = &kindError{kind: ErrNotFound, msg: "rental not found"}
)

// Identity errors
var (
	ErrIDNotSet     = &StateError{Msg: "id has not been set"}
	ErrIDAlreadySet = &StateError{Msg: "id cannot be changed once set"}
	ErrInvalidID    = &ValidationError{Field: "id", Msg: "id must not be nil"}
)

// Authorization errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)
