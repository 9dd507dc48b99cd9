package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRedisRepository struct {
	mock.Mock
}

func (m *mockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *mockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockRedisRepository) AddToSet(ctx context.Context, key string, values ...interface{}) error {
	return m.Called(ctx, key, values).Error(0)
}

func (m *mockRedisRepository) RemoveFromSet(ctx context.Context, key string, values ...interface{}) error {
	return m.Called(ctx, key, values).Error(0)
}

func (m *mockRedisRepository) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *mockRedisRepository) DeleteIfEquals(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func TestTryLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquired", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "lock:S-1", mock.AnythingOfType("string"), 5*time.Second).Return(true, nil)

		acquired, value, err := NewLockService(repo, zap.NewNop()).TryLock(ctx, "lock:S-1", 5*time.Second)

		require.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, value)
		repo.AssertExpectations(t)
	})

	t.Run("held elsewhere", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "lock:S-1", mock.Anything, mock.Anything).Return(false, nil)

		acquired, value, err := NewLockService(repo, zap.NewNop()).TryLock(ctx, "lock:S-1", time.Second)

		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, value)
	})

	t.Run("redis failure", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "lock:S-1", mock.Anything, mock.Anything).Return(false, errors.New("down"))

		_, _, err := NewLockService(repo, zap.NewNop()).TryLock(ctx, "lock:S-1", time.Second)
		assert.Error(t, err)
	})
}

func TestUnlock(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRedisRepository)
	repo.On("DeleteIfEquals", ctx, "lock:S-1", "token").Return(true, nil).Once()
	repo.On("DeleteIfEquals", ctx, "lock:S-1", "stale").Return(false, nil).Once()
	repo.On("DeleteIfEquals", ctx, "lock:S-2", "token").Return(false, errors.New("down")).Once()

	service := NewLockService(repo, zap.NewNop())
	assert.NoError(t, service.Unlock(ctx, "lock:S-1", "token"))
	assert.NoError(t, service.Unlock(ctx, "lock:S-1", "stale"))
	assert.Error(t, service.Unlock(ctx, "lock:S-2", "token"))
	repo.AssertExpectations(t)
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after retry", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "lock:S-1", mock.Anything, time.Second).Return(false, nil).Once()
		repo.On("TrySetNX", ctx, "lock:S-1", mock.Anything, time.Second).Return(true, nil).Once()

		value, err := Acquire(ctx, NewLockService(repo, zap.NewNop()), "lock:S-1", time.Second, time.Second, 10*time.Millisecond)

		require.NoError(t, err)
		assert.NotEmpty(t, value)
		repo.AssertNumberOfCalls(t, "TrySetNX", 2)
	})

	t.Run("gives up after wait", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", ctx, "lock:S-1", mock.Anything, time.Second).Return(false, nil)

		_, err := Acquire(ctx, NewLockService(repo, zap.NewNop()), "lock:S-1", time.Second, 30*time.Millisecond, 10*time.Millisecond)

		assert.ErrorIs(t, err, ErrLockNotAcquired)
	})

	t.Run("stops when context ends", func(t *testing.T) {
		repo := new(mockRedisRepository)
		repo.On("TrySetNX", mock.Anything, "lock:S-1", mock.Anything, time.Second).Return(false, nil)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Acquire(cancelled, NewLockService(repo, zap.NewNop()), "lock:S-1", time.Second, time.Second, 10*time.Millisecond)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
