package sessionstate

import (
	"context"
	"testing"
	"time"

	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRedis) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = string(encoded)
	m.ttls[key] = exp
	return nil
}

func (m *memoryRedis) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryRedis) AddToSet(context.Context, string, ...interface{}) error      { return nil }
func (m *memoryRedis) RemoveFromSet(context.Context, string, ...interface{}) error { return nil }
func (m *memoryRedis) GetSetMembers(context.Context, string) ([]string, error)    { return nil, nil }
func (m *memoryRedis) TrySetNX(context.Context, string, interface{}, time.Duration) (bool, error) {
	return true, nil
}
func (m *memoryRedis) DeleteIfEquals(context.Context, string, interface{}) (bool, error) {
	return true, nil
}

func TestSessionStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	redis := newMemoryRedis()
	store := NewRedisSessionStateStore(redis, time.Hour)

	key := models.NewStateKey(models.StateKindPatientInfo, "SESSION-P1-2025-12-16")
	patient := models.PatientInfo{PatientID: "P1", PatientName: "Jane"}
	require.NoError(t, store.Save(ctx, key, patient))

	_, stored := redis.values["medical_reports:patient_info_SESSION-P1-2025-12-16"]
	assert.True(t, stored)
	assert.Equal(t, time.Hour, redis.ttls["medical_reports:patient_info_SESSION-P1-2025-12-16"])

	var loaded models.PatientInfo
	found, err := store.Load(ctx, key, &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, patient, loaded)

	require.NoError(t, store.Delete(ctx, key))
	found, err = store.Load(ctx, key, &loaded)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionStateStore_KindsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	store := NewRedisSessionStateStore(newMemoryRedis(), 0)

	require.NoError(t, store.Save(ctx, models.NewStateKey(models.StateKindDraftReport, "S-1"), models.ReportRecord{ReportID: "draft"}))
	require.NoError(t, store.Save(ctx, models.NewStateKey(models.StateKindFinalReport, "S-1"), models.ReportRecord{ReportID: "final"}))

	var draft, final models.ReportRecord
	_, err := store.Load(ctx, models.NewStateKey(models.StateKindDraftReport, "S-1"), &draft)
	require.NoError(t, err)
	_, err = store.Load(ctx, models.NewStateKey(models.StateKindFinalReport, "S-1"), &final)
	require.NoError(t, err)

	assert.Equal(t, "draft", draft.ReportID)
	assert.Equal(t, "final", final.ReportID)
}

func TestSessionStateStore_CorruptedValue(t *testing.T) {
	ctx := context.Background()
	redis := newMemoryRedis()
	redis.values["medical_reports:lab_result_S-1"] = "{not json"
	store := NewRedisSessionStateStore(redis, 0)

	var panel models.LabPanelResult
	found, err := store.Load(ctx, models.NewStateKey(models.StateKindLabResult, "S-1"), &panel)

	assert.False(t, found)
	require.Error(t, err)
	assert.Equal(t, 500, exceptions.StatusCodeOf(err))
}
