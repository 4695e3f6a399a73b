package domain

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Identity - идентификатор, который назначается ровно один раз.
// nil означает "не назначен", иначе "назначен(id)".
type Identity struct {
	id atomic.Pointer[uuid.UUID]
}

// Assign назначает идентификатор. Повторное назначение - ошибка, значение не меняется.
func (i *Identity) Assign(id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidID
	}
	if !i.id.CompareAndSwap(nil, &id) {
		return ErrIDAlreadySet
	}
	return nil
}

// Get возвращает идентификатор или ErrIDNotSet
func (i *Identity) Get() (uuid.UUID, error) {
	p := i.id.Load()
	if p == nil {
		return uuid.Nil, ErrIDNotSet
	}
	return *p, nil
}

// IsAssigned проверяет, назначен ли идентификатор
func (i *Identity) IsAssigned() bool {
	return i.id.Load() != nil
}

// value возвращает идентификатор или uuid.Nil
func (i *Identity) value() uuid.UUID {
	if p := i.id.Load(); p != nil {
		return *p
	}
	return uuid.Nil
}
