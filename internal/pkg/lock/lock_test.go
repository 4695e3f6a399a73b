package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Locker = (*Local)(nil)

func TestLocal_ImplementsLocker(t *testing.T) {
	var locker Locker = NewLocal()

	unlock, err := locker.Lock(context.Background(), "movie:1")
	require.NoError(t, err)
	unlock()
}

func TestLocal_MutualExclusion(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "user:1", "movie:1")
			if err != nil {
				return
			}
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.size(), "все ключи освобождены")
}

func TestLocal_OppositeOrderNoDeadlock(t *testing.T) {
	l := NewLocal()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "a", "b")
			if assert.NoError(t, err) {
				unlock()
			}
		}()
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "b", "a")
			if assert.NoError(t, err) {
				unlock()
			}
		}()
	}
	wg.Wait()
}

func TestLocal_ContextCanceled(t *testing.T) {
	l := NewLocal()

	unlock, err := l.Lock(context.Background(), "movie:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "user:1", "movie:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Equal(t, 0, l.size())

	again, err := l.Lock(context.Background(), "user:1")
	require.NoError(t, err)
	again()
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Normalize([]string{"c", "a", "b", "a"}))
	assert.Empty(t, Normalize(nil))
}
