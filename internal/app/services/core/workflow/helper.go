package workflow

import (
	"context"
	"errors"
	"fmt"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/shared/locker"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

const lockRetryInterval = 100 * time.Millisecond

// withSessionLock serializes transitions of one session across instances.
func (uc *workflowUsecase) withSessionLock(ctx context.Context, sessionID string, fn func() error) error {
	key := constvars.RedisSessionLockPrefix + sessionID
	lockValue, err := locker.Acquire(
		ctx,
		uc.Locker,
		key,
		uc.InternalConfig.Workflow.SessionLockTTL(),
		uc.InternalConfig.Workflow.SessionLockWait(),
		lockRetryInterval,
	)
	if err != nil {
		if errors.Is(err, locker.ErrLockNotAcquired) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return exceptions.ErrSessionBusy(err, sessionID)
		}
		return err
	}

	defer func() {
		if err := uc.Locker.Unlock(context.WithoutCancel(ctx), key, lockValue); err != nil {
			uc.Log.Warn("workflowUsecase.withSessionLock failed to release session lock",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.Error(err),
			)
		}
	}()

	return fn()
}

// resolveSessionID falls back to SESSION-{patient_id}-{study_date}, filling a
// missing study date with today's date.
func (uc *workflowUsecase) resolveSessionID(sessionID string, patient *models.PatientInfo) string {
	if strings.TrimSpace(patient.StudyDate) == "" {
		patient.StudyDate = uc.now().Format("2006-01-02")
	}
	if strings.TrimSpace(sessionID) != "" {
		return sessionID
	}
	return fmt.Sprintf("SESSION-%s-%s", patient.PatientID, patient.StudyDate)
}

func (uc *workflowUsecase) trackUrgentReview(ctx context.Context, sessionID string, urgent bool) error {
	if urgent {
		return uc.RedisRepository.AddToSet(ctx, constvars.RedisUrgentReviewSetKey, sessionID)
	}
	return uc.RedisRepository.RemoveFromSet(ctx, constvars.RedisUrgentReviewSetKey, sessionID)
}

// publish is best effort; state is already durable when events go out.
func (uc *workflowUsecase) publish(ctx context.Context, event models.WorkflowEvent) {
	event.OccurredAt = uc.now()
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		uc.Log.Warn("workflowUsecase.publish failed to publish workflow event",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingEventTopicKey, string(event.Topic)),
			zap.String(constvars.LoggingSessionIDKey, event.SessionID),
			zap.Error(err),
		)
	}
}

func (uc *workflowUsecase) archive(ctx context.Context, report *models.ReportRecord) {
	if err := uc.ReportArchive.Upsert(ctx, report); err != nil {
		uc.Log.Error("workflowUsecase.archive failed to archive final report",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingReportIDKey, report.ReportID),
			zap.Error(err),
		)
	}
}

func (uc *workflowUsecase) presignPDF(ctx context.Context, objectName string) string {
	if objectName == "" {
		return ""
	}
	url, err := uc.Storage.GetObjectUrlWithExpiryTime(
		ctx,
		uc.InternalConfig.Minio.ReportBucketName,
		objectName,
		uc.InternalConfig.Minio.PreSignedUrlExpiry(),
	)
	if err != nil {
		uc.Log.Warn("workflowUsecase.presignPDF failed to presign report document",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return ""
	}
	return url
}
