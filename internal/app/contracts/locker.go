package contracts

import (
	"context"
	"time"
)

// LockerService hands out expiring named locks. TryLock returns the token that
// Unlock must present to release the lock.
type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, lockValue string) error
}
