package contracts

import (
	"context"
	"medreport-service/internal/app/models"
)

// SessionStateStore is the durable keyed store behind every workflow transition.
// Load reports false without error when the key is absent.
type SessionStateStore interface {
	Load(ctx context.Context, key models.StateKey, dest interface{}) (bool, error)
	Save(ctx context.Context, key models.StateKey, value interface{}) error
	Delete(ctx context.Context, key models.StateKey) error
}
