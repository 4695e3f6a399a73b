package memory

import (
	"context"
	"sync"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/google/uuid"
)

// Store - общее in-memory хранилище для всех репозиториев.
// Одна блокировка на все таблицы: операции проката меняют фильм и прокат вместе.
type Store struct {
	mu      sync.RWMutex
	movies  *table[*domain.Movie]
	users   *table[*domain.User]
	rentals *table[*domain.Rental]
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		movies:  newTable[*domain.Movie](),
		users:   newTable[*domain.User](),
		rentals: newTable[*domain.Rental](),
	}
}

// table хранит записи по ID в порядке добавления
type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id uuid.UUID, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id uuid.UUID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all() []T {
	rows := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id])
	}
	return rows
}

func (t *table[T]) len() int {
	return len(t.rows)
}

// Stats - количество записей по таблицам
type Stats struct {
	Movies  int
	Users   int
	Rentals int
}

// Stats возвращает количество записей в хранилище
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Movies:  s.movies.len(),
		Users:   s.users.len(),
		Rentals: s.rentals.len(),
	}, nil
}
