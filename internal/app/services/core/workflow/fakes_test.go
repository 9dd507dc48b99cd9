package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"medreport-service/internal/app/config"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/core/imaging"
	"medreport-service/internal/app/services/core/laboratory"
	"medreport-service/internal/app/services/core/reports"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type memoryStateStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{values: map[string][]byte{}}
}

func (s *memoryStateStore) Load(_ context.Context, key models.StateKey, dest interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key.String()]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *memoryStateStore) Save(_ context.Context, key models.StateKey, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key.String()] = raw
	return nil
}

func (s *memoryStateStore) Delete(_ context.Context, key models.StateKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key.String())
	return nil
}

func (s *memoryStateStore) has(kind models.StateKind, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[models.NewStateKey(kind, sessionID).String()]
	return ok
}

func (s *memoryStateStore) countKind(kind models.StateKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	prefix := string(kind) + "_"
	for key := range s.values {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			count++
		}
	}
	return count
}

type fakeLocker struct {
	mu       sync.Mutex
	busy     bool
	held     map[string]bool
	unlocked int
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy || l.held[key] {
		return false, "", nil
	}
	if l.held == nil {
		l.held = map[string]bool{}
	}
	l.held[key] = true
	return true, "token-" + key, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.unlocked++
	return nil
}

type fakeRedis struct {
	mu   sync.Mutex
	sets map[string]map[string]bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{sets: map[string]map[string]bool{}}
}

func (r *fakeRedis) Delete(context.Context, string) error { return nil }
func (r *fakeRedis) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (r *fakeRedis) Get(context.Context, string) (string, error) { return "", nil }

func (r *fakeRedis) AddToSet(_ context.Context, key string, values ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sets[key] == nil {
		r.sets[key] = map[string]bool{}
	}
	for _, v := range values {
		r.sets[key][v.(string)] = true
	}
	return nil
}

func (r *fakeRedis) RemoveFromSet(_ context.Context, key string, values ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		delete(r.sets[key], v.(string))
	}
	return nil
}

func (r *fakeRedis) GetSetMembers(_ context.Context, key string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]string, 0, len(r.sets[key]))
	for member := range r.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (r *fakeRedis) TrySetNX(context.Context, string, interface{}, time.Duration) (bool, error) {
	return true, nil
}

func (r *fakeRedis) DeleteIfEquals(context.Context, string, interface{}) (bool, error) {
	return true, nil
}

func (r *fakeRedis) isMember(key, member string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sets[key][member]
}

type fakeRenderer struct {
	storage  *fakeStorage
	err      error
	hang     bool
	rendered []models.ReportRecord
}

func (r *fakeRenderer) Render(ctx context.Context, report *models.ReportRecord) (*models.PDFReference, error) {
	if r.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, *report)
	if r.storage != nil {
		r.storage.UploadBytes(context.Background(), []byte("%PDF"), "reports", report.ReportID+".pdf", "application/pdf")
	}
	return &models.PDFReference{
		ReportID:   report.ReportID,
		Bucket:     "reports",
		ObjectName: report.ReportID + ".pdf",
		Size:       4,
	}, nil
}

type fakeExtractor struct {
	features *models.ExtractedFeatures
	err      error
	calls    int
}

func (e *fakeExtractor) Extract(context.Context, []byte, string, models.Modality) (*models.ExtractedFeatures, error) {
	e.calls++
	return e.features, e.err
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, file io.Reader, fileHeader *multipart.FileHeader, bucketName, objectPrefix string) (string, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	objectName := objectPrefix + "/" + fileHeader.Filename
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucketName+"/"+objectName] = content
	return objectName, nil
}

func (s *fakeStorage) UploadBytes(_ context.Context, content []byte, bucketName, objectName, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucketName+"/"+objectName] = content
	return objectName, nil
}

func (s *fakeStorage) GetObject(_ context.Context, bucketName, objectName string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.objects[bucketName+"/"+objectName]
	if !ok {
		return nil, errors.New("object not found")
	}
	return content, nil
}

func (s *fakeStorage) GetObjectUrlWithExpiryTime(_ context.Context, bucketName, objectName string, _ time.Duration) (string, error) {
	return "https://storage.local/" + bucketName + "/" + objectName, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.WorkflowEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event models.WorkflowEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) topics() []models.EventTopic {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]models.EventTopic, 0, len(p.events))
	for _, event := range p.events {
		topics = append(topics, event.Topic)
	}
	return topics
}

type fakeArchive struct {
	reports map[string]models.ReportRecord
}

func (a *fakeArchive) Upsert(_ context.Context, report *models.ReportRecord) error {
	if a.reports == nil {
		a.reports = map[string]models.ReportRecord{}
	}
	a.reports[report.ReportID] = *report
	return nil
}

func (a *fakeArchive) FindByPatientID(_ context.Context, patientID string) ([]models.ReportRecord, error) {
	var found []models.ReportRecord
	for _, report := range a.reports {
		if report.PatientInfo.PatientID == patientID {
			found = append(found, report)
		}
	}
	return found, nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

type testHarness struct {
	usecase   *workflowUsecase
	store     *memoryStateStore
	locker    *fakeLocker
	redis     *fakeRedis
	renderer  *fakeRenderer
	extractor *fakeExtractor
	storage   *fakeStorage
	publisher *fakePublisher
	archive   *fakeArchive
}

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		Workflow: config.AppWorkflow{
			SessionLockTTLInSeconds:       30,
			SessionLockWaitInSeconds:      0,
			PDFRenderTimeoutInSeconds:     5,
			UrgentReviewMinimumAgeMinutes: 15,
		},
		Minio: config.AppMinio{
			ReportBucketName:                  "reports",
			ImageBucketName:                   "images",
			ImageMaxUploadSizeInMB:            1,
			PreSignedUrlObjectExpiryTimeInHrs: 1,
		},
	}
}

func newTestHarness() *testHarness {
	h := &testHarness{
		store:     newMemoryStateStore(),
		locker:    &fakeLocker{},
		redis:     newFakeRedis(),
		renderer:  &fakeRenderer{},
		extractor: &fakeExtractor{},
		storage:   newFakeStorage(),
		publisher: &fakePublisher{},
		archive:   &fakeArchive{},
	}
	h.renderer.storage = h.storage
	h.usecase = NewWorkflowUsecase(
		h.store,
		h.locker,
		h.redis,
		laboratory.NewRangeEvaluator(laboratory.StandardReferenceRanges()),
		imaging.NewObservationRuleEngine(),
		reports.NewReportSynthesizer(),
		h.renderer,
		h.extractor,
		h.storage,
		h.publisher,
		h.archive,
		testConfig(),
		zap.NewNop(),
	).(*workflowUsecase)
	h.usecase.now = func() time.Time { return time.Date(2025, 12, 16, 9, 0, 0, 0, time.UTC) }
	return h
}
