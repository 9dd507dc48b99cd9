package redis

import (
	"context"
	"errors"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var deleteIfEqualsScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDeleteData(err)
	}
	return nil
}

// Set stores value JSON encoded. A zero exp keeps the key without expiry.
func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSetData(err)
	}
	return nil
}

// Get returns an empty string without error when the key does not exist.
func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return "", exceptions.ErrRedisGetData(err, key)
	}
	return data, nil
}

func (r *redisRepository) AddToSet(ctx context.Context, key string, values ...interface{}) error {
	err := r.client.SAdd(ctx, key, values...).Err()
	if err != nil {
		return exceptions.ErrRedisSAdd(err)
	}
	return nil
}

func (r *redisRepository) RemoveFromSet(ctx context.Context, key string, values ...interface{}) error {
	err := r.client.SRem(ctx, key, values...).Err()
	if err != nil {
		return exceptions.ErrRedisSRem(err)
	}
	return nil
}

func (r *redisRepository) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	setMembers, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, exceptions.ErrRedisSMembers(err)
	}
	return setMembers, nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSetData(err)
	}
	return acquired, nil
}

func (r *redisRepository) DeleteIfEquals(ctx context.Context, key string, value interface{}) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	deleted, err := deleteIfEqualsScript.Run(ctx, r.client, []string{key}, string(jsonValue)).Int()
	if err != nil {
		return false, exceptions.ErrRedisDeleteData(err)
	}
	return deleted == 1, nil
}
