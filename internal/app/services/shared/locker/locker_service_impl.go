package locker

import (
	"context"
	"errors"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type lockService struct {
	redisRepo contracts.RedisRepository
	Log       *zap.Logger
}

func NewLockService(repo contracts.RedisRepository, logger *zap.Logger) contracts.LockerService {
	return &lockService{
		redisRepo: repo,
		Log:       logger,
	}
}

func (s *lockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Debug("lockService.TryLock called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
		zap.Duration(constvars.LoggingLockExpirationTimeKey, expiration),
	)

	lockValue := uuid.NewString()
	acquired, err := s.redisRepo.TrySetNX(ctx, key, lockValue, expiration)
	if err != nil {
		s.Log.Error("lockService.TryLock error calling redisRepo.TrySetNX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, "", err
	}

	if !acquired {
		s.Log.Debug("lockService.TryLock not acquired",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
		)
		return false, "", nil
	}

	s.Log.Debug("lockService.TryLock acquired lock",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
		zap.String(constvars.LoggingLockValueKey, lockValue),
	)
	return true, lockValue, nil
}

// Unlock releases the lock only if lockValue still owns it. An expired lock is not an error.
func (s *lockService) Unlock(ctx context.Context, key, lockValue string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	released, err := s.redisRepo.DeleteIfEquals(ctx, key, lockValue)
	if err != nil {
		s.Log.Error("lockService.Unlock error calling redisRepo.DeleteIfEquals",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return exceptions.ErrRedisUnlock(err)
	}

	if !released {
		s.Log.Warn("lockService.Unlock lock expired or owned by another holder",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.String(constvars.LoggingLockExpectedValueKey, lockValue),
		)
		return nil
	}

	s.Log.Debug("lockService.Unlock succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
	)
	return nil
}

// Acquire retries TryLock every retryInterval until it succeeds, wait elapses or ctx ends.
func Acquire(ctx context.Context, locker contracts.LockerService, key string, expiration, wait, retryInterval time.Duration) (string, error) {
	deadline := time.Now().Add(wait)
	for {
		acquired, lockValue, err := locker.TryLock(ctx, key, expiration)
		if err != nil {
			return "", err
		}
		if acquired {
			return lockValue, nil
		}
		if !time.Now().Add(retryInterval).Before(deadline) {
			return "", ErrLockNotAcquired
		}

		timer := time.NewTimer(retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

var ErrLockNotAcquired = errors.New("lock held by another holder")
