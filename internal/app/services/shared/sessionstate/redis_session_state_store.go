package sessionstate

import (
	"context"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
)

type redisSessionStateStore struct {
	redisRepo contracts.RedisRepository
	namespace string
	ttl       time.Duration
}

// NewRedisSessionStateStore keeps every entry under the medical reports namespace.
// A zero ttl stores entries without expiry.
func NewRedisSessionStateStore(redisRepo contracts.RedisRepository, ttl time.Duration) contracts.SessionStateStore {
	return &redisSessionStateStore{
		redisRepo: redisRepo,
		namespace: constvars.RedisNamespaceMedicalReports,
		ttl:       ttl,
	}
}

func (s *redisSessionStateStore) redisKey(key models.StateKey) string {
	return s.namespace + key.String()
}

func (s *redisSessionStateStore) Load(ctx context.Context, key models.StateKey, dest interface{}) (bool, error) {
	raw, err := s.redisRepo.Get(ctx, s.redisKey(key))
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, exceptions.ErrStoredStateCorrupted(err, key.String())
	}
	return true, nil
}

func (s *redisSessionStateStore) Save(ctx context.Context, key models.StateKey, value interface{}) error {
	return s.redisRepo.Set(ctx, s.redisKey(key), value, s.ttl)
}

func (s *redisSessionStateStore) Delete(ctx context.Context, key models.StateKey) error {
	return s.redisRepo.Delete(ctx, s.redisKey(key))
}
