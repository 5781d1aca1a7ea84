package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

const (
	keyPrefix = "kitchen-booking:lock"

	// retryInterval пауза между попытками захвата занятой блокировки
	retryInterval = 25 * time.Millisecond
)

// releaseScript удаляет ключ, только если он принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotLocker короткая блокировка (кухня, дата) перед транзакцией создания бронирования.
// Уменьшает число конфликтов serializable транзакций, корректность обеспечивает exclusion constraint.
type SlotLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewSlotLocker создает блокировщик слотов.
// wait - сколько ждать освобождения занятой блокировки, 0 - не ждать.
func NewSlotLocker(client *redis.Client, ttl, wait time.Duration) *SlotLocker {
	return &SlotLocker{client: client, ttl: ttl, wait: wait}
}

// Acquire захватывает блокировку (кухня, дата), ожидая ее освобождения не дольше wait.
// Возвращает функцию освобождения.
func (l *SlotLocker) Acquire(ctx context.Context, kitchenID int64, date types.Date) (func(context.Context) error, error) {
	key := Key(kitchenID, date)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: Acquire - setnx %s: %v", ErrLockBackend, key, err)
		}
		if ok {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockHeld
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: Acquire - %s: %v", ErrLockHeld, key, ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("%w: Release - %s: %v", ErrLockBackend, key, err)
		}
		return nil
	}

	return release, nil
}

// Key ключ блокировки для кухни и даты
func Key(kitchenID int64, date types.Date) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, kitchenID, date.String())
}
