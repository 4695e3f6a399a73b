package lock

import (
	"context"
	"sort"
	"sync"
)

// Locker выдает эксклюзивные блокировки по строковым ключам.
// Lock блокирует все ключи сразу и возвращает функцию освобождения.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// Local - блокировки внутри одного процесса
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// entry - мьютекс ключа со счетчиком ожидающих.
// Канал емкостью 1 позволяет ждать блокировку с учетом контекста.
type entry struct {
	ch   chan struct{}
	refs int
}

// NewLocal создает локальный Locker
func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

// Lock захватывает ключи в отсортированном порядке, чтобы два вызова
// с одинаковыми ключами в разном порядке не заблокировали друг друга.
func (l *Local) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = Normalize(keys)

	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.acquire(ctx, key); err != nil {
			l.releaseAll(acquired)
			return nil, err
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.releaseAll(acquired) })
	}, nil
}

func (l *Local) acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(key, e)
		return ctx.Err()
	}
}

func (l *Local) releaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.locks[keys[i]]
		l.mu.Unlock()

		<-e.ch
		l.unref(keys[i], e)
	}
}

// unref удаляет запись, когда ключ больше никому не нужен
func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size возвращает количество активных ключей
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Normalize сортирует ключи и убирает дубликаты
func Normalize(keys []string) []string {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)
	return sorted
}
