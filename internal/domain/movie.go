package domain

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Минимальный и максимальный возрастной рейтинг фильма
const (
	MinAgeRating = 0
	MaxAgeRating = 18
)

// Movie - фильм в прокате.
// Атрибуты защищены мьютексом, флаг проката атомарный: фильм можно читать
// из нескольких горутин одновременно.
type Movie struct {
	id Identity

	mu            sync.RWMutex
	title         string
	releaseDate   time.Time
	priceCategory PriceCategory
	ageRating     int

	rented atomic.Bool
}

// NewMovie создает фильм, проверяя все инварианты.
// Фильм без идентификатора не готов к использованию, ID назначает сервис.
func NewMovie(title string, releaseDate time.Time, pc PriceCategory, ageRating int) (*Movie, error) {
	m := &Movie{}
	if err := m.SetTitle(title); err != nil {
		return nil, err
	}
	if err := m.SetReleaseDate(releaseDate); err != nil {
		return nil, err
	}
	if err := m.SetPriceCategory(pc); err != nil {
		return nil, err
	}
	if err := m.SetAgeRating(ageRating); err != nil {
		return nil, err
	}
	return m, nil
}

// ID возвращает идентификатор или ErrIDNotSet
func (m *Movie) ID() (uuid.UUID, error) {
	return m.id.Get()
}

// MustID возвращает идентификатор опубликованного фильма (uuid.Nil, если не назначен)
func (m *Movie) MustID() uuid.UUID {
	return m.id.value()
}

// AssignID назначает идентификатор один раз
func (m *Movie) AssignID(id uuid.UUID) error {
	return m.id.Assign(id)
}

func (m *Movie) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title
}

// SetTitle устанавливает название, пустое название недопустимо
func (m *Movie) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrMissingTitle
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
	return nil
}

func (m *Movie) ReleaseDate() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.releaseDate
}

// SetReleaseDate устанавливает дату выхода (обязательна)
func (m *Movie) SetReleaseDate(releaseDate time.Time) error {
	if releaseDate.IsZero() {
		return ErrMissingReleaseDate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseDate = DateOf(releaseDate)
	return nil
}

func (m *Movie) PriceCategory() PriceCategory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.priceCategory
}

// SetPriceCategory устанавливает ценовую категорию (обязательна)
func (m *Movie) SetPriceCategory(pc PriceCategory) error {
	if pc == nil {
		return ErrMissingPriceCategory
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceCategory = pc
	return nil
}

func (m *Movie) AgeRating() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ageRating
}

// SetAgeRating устанавливает возрастной рейтинг в диапазоне [0, 18]
func (m *Movie) SetAgeRating(ageRating int) error {
	if ageRating < MinAgeRating || ageRating > MaxAgeRating {
		return ErrInvalidAgeRating
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ageRating = ageRating
	return nil
}

// IsRented проверяет, выдан ли фильм в прокат
func (m *Movie) IsRented() bool {
	return m.rented.Load()
}

// SetRented устанавливает флаг проката без проверок
func (m *Movie) SetRented(rented bool) {
	m.rented.Store(rented)
}

// markRented атомарно выдает фильм в прокат; false, если фильм уже выдан
func (m *Movie) markRented() bool {
	return m.rented.CompareAndSwap(false, true)
}

// CopyAttributes переносит атрибуты другого фильма (полная замена при обновлении).
// Идентификатор и флаг проката не переносятся: ими управляет прокат.
func (m *Movie) CopyAttributes(other *Movie) {
	title, releaseDate, pc, ageRating := other.attributes()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
	m.releaseDate = releaseDate
	m.priceCategory = pc
	m.ageRating = ageRating
}

func (m *Movie) attributes() (string, time.Time, PriceCategory, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title, m.releaseDate, m.priceCategory, m.ageRating
}

// Equal сравнивает фильмы по идентификатору, названию, дате выхода, категории и рейтингу.
// Фильм без идентификатора равен только самому себе.
func (m *Movie) Equal(other *Movie) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	id, err := m.ID()
	if err != nil {
		return false
	}
	otherID, err := other.ID()
	if err != nil || id != otherID {
		return false
	}

	title, releaseDate, pc, ageRating := m.attributes()
	otherTitle, otherReleaseDate, otherPC, otherAgeRating := other.attributes()

	return title == otherTitle &&
		releaseDate.Equal(otherReleaseDate) &&
		pc == otherPC &&
		ageRating == otherAgeRating
}
