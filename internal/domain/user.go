package domain

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Ограничения пользователя
const (
	MaxNameLength = 40
	MaxUserAge    = 120
)

// User - клиент видеопроката.
// Пользователь владеет списком своих прокатов, прокат ссылается на пользователя.
type User struct {
	id Identity

	mu        sync.RWMutex
	name      string
	firstName string
	birthdate time.Time
	rentals   []*Rental
}

// NewUser создает пользователя, проверяя имя, фамилию и дату рождения
func NewUser(name, firstName string, birthdate time.Time) (*User, error) {
	u := &User{}
	if err := u.SetName(name); err != nil {
		return nil, err
	}
	if err := u.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if err := u.SetBirthdate(birthdate); err != nil {
		return nil, err
	}
	return u, nil
}

// RestoreUser собирает сохраненного пользователя с известным ID.
// Окно возраста не проверяется: клиент мог стать старше 120 лет уже после регистрации.
func RestoreUser(id uuid.UUID, name, firstName string, birthdate time.Time) (*User, error) {
	u := &User{}
	if err := u.SetName(name); err != nil {
		return nil, err
	}
	if err := u.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if birthdate.IsZero() {
		return nil, ErrInvalidBirthdate
	}
	u.birthdate = DateOf(birthdate)
	if err := u.AssignID(id); err != nil {
		return nil, err
	}
	return u, nil
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= MaxNameLength
}

// ID возвращает идентификатор или ErrIDNotSet
func (u *User) ID() (uuid.UUID, error) {
	return u.id.Get()
}

// MustID возвращает идентификатор опубликованного пользователя (uuid.Nil, если не назначен)
func (u *User) MustID() uuid.UUID {
	return u.id.value()
}

// AssignID назначает идентификатор один раз
func (u *User) AssignID(id uuid.UUID) error {
	return u.id.Assign(id)
}

// Name возвращает фамилию
func (u *User) Name() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.name
}

func (u *User) SetName(name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.name = name
	return nil
}

func (u *User) FirstName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.firstName
}

func (u *User) SetFirstName(firstName string) error {
	if !validName(firstName) {
		return ErrInvalidFirstName
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.firstName = firstName
	return nil
}

func (u *User) Birthdate() time.Time {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.birthdate
}

// SetBirthdate устанавливает дату рождения: не в будущем и не старше 120 лет
func (u *User) SetBirthdate(birthdate time.Time) error {
	if birthdate.IsZero() {
		return ErrInvalidBirthdate
	}
	birthdate = DateOf(birthdate)
	today := Today()
	if birthdate.After(today) || !birthdate.After(today.AddDate(-MaxUserAge, 0, 0)) {
		return ErrInvalidBirthdate
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.birthdate = birthdate
	return nil
}

// AgeAt возвращает возраст пользователя в полных годах на указанную дату
func (u *User) AgeAt(date time.Time) int {
	return YearsBetween(u.Birthdate(), date)
}

// Rentals возвращает текущие прокаты пользователя в порядке создания
func (u *User) Rentals() []*Rental {
	u.mu.RLock()
	defer u.mu.RUnlock()
	rentals := make([]*Rental, len(u.rentals))
	copy(rentals, u.rentals)
	return rentals
}

// RentalCount возвращает количество активных прокатов
func (u *User) RentalCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.rentals)
}

// HasRentals проверяет, есть ли у пользователя активные прокаты
func (u *User) HasRentals() bool {
	return u.RentalCount() > 0
}

// Charge считает суммарную стоимость всех текущих прокатов
func (u *User) Charge() float64 {
	var total float64
	for _, r := range u.Rentals() {
		total += r.Fee()
	}
	return total
}

// removeRental удаляет прокат из списка; false, если его там нет
func (u *User) removeRental(r *Rental) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, existing := range u.rentals {
		if existing == r {
			u.rentals = append(u.rentals[:i], u.rentals[i+1:]...)
			return true
		}
	}
	return false
}

// CopyAttributes переносит имя, фамилию и дату рождения другого пользователя.
// Идентификатор и список прокатов не переносятся.
func (u *User) CopyAttributes(other *User) {
	name, firstName, birthdate := other.attributes()

	u.mu.Lock()
	defer u.mu.Unlock()
	u.name = name
	u.firstName = firstName
	u.birthdate = birthdate
}

func (u *User) attributes() (string, string, time.Time) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.name, u.firstName, u.birthdate
}

// Equal сравнивает пользователей по идентификатору, фамилии, имени и дате рождения.
// Пользователь без идентификатора равен только самому себе.
func (u *User) Equal(other *User) bool {
	if u == other {
		return true
	}
	if u == nil || other == nil {
		return false
	}
	id, err := u.ID()
	if err != nil {
		return false
	}
	otherID, err := other.ID()
	if err != nil || id != otherID {
		return false
	}

	name, firstName, birthdate := u.attributes()
	otherName, otherFirstName, otherBirthdate := other.attributes()

	return name == otherName && firstName == otherFirstName && birthdate.Equal(otherBirthdate)
}
