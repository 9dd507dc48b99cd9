package workflow

import (
	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/shared/metrics"
	"medreport-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	urgentReviewLeaderTTL    = 2 * time.Minute
	urgentReviewFallbackSpec = "@every 5m"
)

// UrgentReviewWorker periodically re-announces urgent drafts that are still
// waiting for a reviewer decision.
type UrgentReviewWorker struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	locker     contracts.LockerService
	redis      contracts.RedisRepository
	stateStore contracts.SessionStateStore
	publisher  contracts.EventPublisher
	now        func() time.Time
	cron       *cron.Cron
	runCtx     context.Context
	cancel     context.CancelFunc
}

func NewUrgentReviewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerService contracts.LockerService,
	redisRepository contracts.RedisRepository,
	stateStore contracts.SessionStateStore,
	publisher contracts.EventPublisher,
) *UrgentReviewWorker {
	return &UrgentReviewWorker{
		log:        log,
		cfg:        cfg,
		locker:     lockerService,
		redis:      redisRepository,
		stateStore: stateStore,
		publisher:  publisher,
		now:        time.Now,
	}
}

func (w *UrgentReviewWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Workflow.UrgentReviewCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("urgent_review.worker: failed to schedule with provided cron spec; falling back",
			zap.String("spec", spec),
			zap.String("fallback", urgentReviewFallbackSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(urgentReviewFallbackSpec, func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels the in-flight run and waits for it to return.
func (w *UrgentReviewWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *UrgentReviewWorker) runOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisUrgentReviewWorkerLock, urgentReviewLeaderTTL)
	if err != nil {
		w.log.Warn("urgent_review.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("urgent_review.worker: leader lock not acquired; another instance is running")
		return
	}
	defer w.locker.Unlock(context.WithoutCancel(ctx), constvars.RedisUrgentReviewWorkerLock, token)

	sessionIDs, err := w.redis.GetSetMembers(ctx, constvars.RedisUrgentReviewSetKey)
	if err != nil {
		w.log.Warn("urgent_review.worker: listing pending sessions failed", zap.Error(err))
		return
	}

	pending := 0
	for _, sessionID := range sessionIDs {
		if ctx.Err() != nil {
			return
		}
		stillPending, err := w.remind(ctx, sessionID)
		if err != nil {
			w.log.Warn("urgent_review.worker: reminder failed",
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.Error(err),
			)
			continue
		}
		if stillPending {
			pending++
		}
	}
	metrics.SetUrgentReviewsPending(pending)

	w.log.Info("urgent_review.worker: run completed",
		zap.Int("sessions_checked", len(sessionIDs)),
		zap.Int("sessions_pending", pending),
	)
}

// remind drops sessions that no longer need review and announces the rest
// once their draft is older than the configured minimum age.
func (w *UrgentReviewWorker) remind(ctx context.Context, sessionID string) (bool, error) {
	var final models.ReportRecord
	finalized, err := w.stateStore.Load(ctx, models.NewStateKey(models.StateKindFinalReport, sessionID), &final)
	if err != nil {
		return false, err
	}

	var draft models.ReportRecord
	drafted, err := w.stateStore.Load(ctx, models.NewStateKey(models.StateKindDraftReport, sessionID), &draft)
	if err != nil {
		return false, err
	}

	superseded := finalized && (!drafted || draft.ReportID == final.ReportID)
	if !drafted || superseded || !draft.RequiresUrgentReview {
		return false, w.redis.RemoveFromSet(ctx, constvars.RedisUrgentReviewSetKey, sessionID)
	}

	now := w.now()
	if now.Sub(draft.GeneratedDate) < w.cfg.Workflow.UrgentReviewMinimumAge() {
		return true, nil
	}

	err = w.publisher.Publish(ctx, models.WorkflowEvent{
		Topic:     models.EventTopicUrgentReviewPending,
		SessionID: sessionID,
		PatientID: draft.PatientInfo.PatientID,
		ReportID:  draft.ReportID,
		Data: map[string]interface{}{
			"critical_count":  draft.LaboratoryFindings.CriticalCount,
			"pending_minutes": int(now.Sub(draft.GeneratedDate).Minutes()),
		},
		OccurredAt: now,
	})
	return true, err
}
