package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/movierental/internal/pkg/lock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix     = "mrs:lock:"
	lockRetryDelay = 25 * time.Millisecond
)

// releaseScript удаляет ключ, только если он все еще принадлежит нашему токену
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker - распределенная блокировка на SET NX PX для нескольких экземпляров сервиса.
// TTL ограничивает время жизни блокировки, если экземпляр упал, не освободив ее.
type Locker struct {
	client *Client
	ttl    time.Duration
}

var _ lock.Locker = (*Locker)(nil)

// NewLocker создает Locker поверх клиента
func NewLocker(client *Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// Lock захватывает все ключи в отсортированном порядке, повторяя попытки до отмены контекста
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	token := uuid.NewString()
	keys = lock.Normalize(keys)

	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.acquire(ctx, lockPrefix+key, token); err != nil {
			l.release(acquired, token)
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		acquired = append(acquired, lockPrefix+key)
	}

	return func() { l.release(acquired, token) }, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(lockRetryDelay)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// release освобождает ключи независимо от контекста запроса
func (l *Locker) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, key := range keys {
		// При ошибке ключ освободится по TTL
		_ = releaseScript.Run(ctx, l.client.GetClient(), []string{key}, token).Err()
	}
}
