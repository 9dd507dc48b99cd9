package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Delete(ctx context.Context, key string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	AddToSet(ctx context.Context, key string, values ...interface{}) error
	RemoveFromSet(ctx context.Context, key string, values ...interface{}) error
	GetSetMembers(ctx context.Context, key string) ([]string, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	// DeleteIfEquals removes key only while it still holds the JSON encoding of value.
	DeleteIfEquals(ctx context.Context, key string, value interface{}) (bool, error)
}
