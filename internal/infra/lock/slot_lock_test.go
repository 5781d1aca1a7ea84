package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

func newLocker(t *testing.T) (*SlotLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSlotLocker(client, 5*time.Second, 0), mr
}

func TestSlotLocker_Contention(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()
	date := types.NewDate(2025, time.March, 10)

	release, err := locker.Acquire(ctx, 1, date)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, 1, date)
	assert.ErrorIs(t, err, ErrLockHeld)

	// Другая кухня и другая дата не блокируются
	releaseOther, err := locker.Acquire(ctx, 2, date)
	require.NoError(t, err)
	require.NoError(t, releaseOther(ctx))

	releaseNextDay, err := locker.Acquire(ctx, 1, date.AddDays(1))
	require.NoError(t, err)
	require.NoError(t, releaseNextDay(ctx))

	require.NoError(t, release(ctx))

	release, err = locker.Acquire(ctx, 1, date)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestSlotLocker_WaitsForRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewSlotLocker(client, 5*time.Second, 2*time.Second)
	ctx := context.Background()
	date := types.NewDate(2025, time.March, 10)

	release, err := locker.Acquire(ctx, 1, date)
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = release(ctx)
	}()

	start := time.Now()
	second, err := locker.Acquire(ctx, 1, date)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.NoError(t, second(ctx))
}

func TestSlotLocker_WaitIsBounded(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewSlotLocker(client, 5*time.Second, 150*time.Millisecond)
	ctx := context.Background()
	date := types.NewDate(2025, time.March, 10)

	_, err := locker.Acquire(ctx, 1, date)
	require.NoError(t, err)

	start := time.Now()
	_, err = locker.Acquire(ctx, 1, date)
	assert.ErrorIs(t, err, ErrLockHeld)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSlotLocker_ExpiredLockIsNotReleasedByOldOwner(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()
	date := types.NewDate(2025, time.March, 10)

	staleRelease, err := locker.Acquire(ctx, 1, date)
	require.NoError(t, err)

	mr.FastForward(10 * time.Second)

	_, err = locker.Acquire(ctx, 1, date)
	require.NoError(t, err)

	// Старый владелец не должен снять чужую блокировку
	require.NoError(t, staleRelease(ctx))
	assert.True(t, mr.Exists(Key(1, date)))
}

func TestSlotLocker_BackendDown(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Close()

	_, err := locker.Acquire(context.Background(), 1, types.NewDate(2025, time.March, 10))
	assert.ErrorIs(t, err, ErrLockBackend)
}
