package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/core/imaging"
	"medreport-service/internal/app/services/core/laboratory"
	"medreport-service/internal/app/services/shared/metrics"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/dto/responses"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

const (
	transitionRecordImage = "record_image"
	transitionRecordLabs  = "record_labs"
	transitionDraft       = "draft"
	transitionDecide      = "decide"

	collaboratorFeatureExtraction = "feature_extraction"
	collaboratorPDFRenderer       = "pdf_renderer"
)

type workflowUsecase struct {
	StateStore            contracts.SessionStateStore
	Locker                contracts.LockerService
	RedisRepository       contracts.RedisRepository
	RangeEvaluator        contracts.RangeEvaluator
	ObservationRuleEngine contracts.ObservationRuleEngine
	ReportSynthesizer     contracts.ReportSynthesizer
	ReportRenderer        contracts.ReportRenderer
	FeatureExtractor      contracts.FeatureExtractor
	Storage               contracts.Storage
	EventPublisher        contracts.EventPublisher
	ReportArchive         contracts.ReportArchive
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
	now                   func() time.Time
}

func NewWorkflowUsecase(
	stateStore contracts.SessionStateStore,
	lockerService contracts.LockerService,
	redisRepository contracts.RedisRepository,
	rangeEvaluator contracts.RangeEvaluator,
	observationRuleEngine contracts.ObservationRuleEngine,
	reportSynthesizer contracts.ReportSynthesizer,
	reportRenderer contracts.ReportRenderer,
	featureExtractor contracts.FeatureExtractor,
	storage contracts.Storage,
	eventPublisher contracts.EventPublisher,
	reportArchive contracts.ReportArchive,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.WorkflowUsecase {
	return &workflowUsecase{
		StateStore:            stateStore,
		Locker:                lockerService,
		RedisRepository:       redisRepository,
		RangeEvaluator:        rangeEvaluator,
		ObservationRuleEngine: observationRuleEngine,
		ReportSynthesizer:     reportSynthesizer,
		ReportRenderer:        reportRenderer,
		FeatureExtractor:      featureExtractor,
		Storage:               storage,
		EventPublisher:        eventPublisher,
		ReportArchive:         reportArchive,
		InternalConfig:        internalConfig,
		Log:                   logger,
		now:                   time.Now,
	}
}

func (uc *workflowUsecase) RecordImage(ctx context.Context, request *requests.AnalyzeImage) (*responses.AnalyzeImage, error) {
	start := time.Now()
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("workflowUsecase.RecordImage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingModalityKey, request.ImageType),
	)

	response, err := uc.recordImageEvidence(ctx, imageIntake{
		sessionID:  request.SessionID,
		patient:    request.PatientInfo(),
		imageType:  request.ImageType,
		features:   request.Features,
		dimensions: request.Dimensions,
	})
	metrics.RecordTransition(transitionRecordImage, err, time.Since(start))
	if err != nil {
		uc.Log.Error("workflowUsecase.RecordImage error recording imaging evidence",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("workflowUsecase.RecordImage succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.Int(constvars.LoggingObservationsCount, response.ObservationsCount),
	)
	return response, nil
}

func (uc *workflowUsecase) RecordImageUpload(ctx context.Context, request *requests.AnalyzeImageUpload) (*responses.AnalyzeImage, error) {
	start := time.Now()
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("workflowUsecase.RecordImageUpload called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingModalityKey, request.ImageType),
	)

	response, err := uc.recordUploadedImage(ctx, request)
	metrics.RecordTransition(transitionRecordImage, err, time.Since(start))
	if err != nil {
		uc.Log.Error("workflowUsecase.RecordImageUpload error recording uploaded image",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("workflowUsecase.RecordImageUpload succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.String(constvars.LoggingObjectNameKey, response.ImageObject),
	)
	return response, nil
}

func (uc *workflowUsecase) recordUploadedImage(ctx context.Context, request *requests.AnalyzeImageUpload) (*responses.AnalyzeImage, error) {
	modality, err := models.ParseModality(request.ImageType)
	if err != nil {
		return nil, exceptions.ErrUnsupportedModality(err, request.ImageType)
	}

	err = utils.ValidateImage(request.ImageHeader, int64(uc.InternalConfig.Minio.ImageMaxUploadSizeInMB))
	if err != nil {
		return nil, exceptions.ErrImageValidation(err)
	}

	content, err := io.ReadAll(request.Image)
	if err != nil {
		return nil, exceptions.ErrServerProcess(err)
	}

	patient := request.PatientInfo()
	sessionID := uc.resolveSessionID(request.SessionID, &patient)

	objectName, err := uc.Storage.UploadFile(
		ctx,
		bytes.NewReader(content),
		request.ImageHeader,
		uc.InternalConfig.Minio.ImageBucketName,
		sessionID,
	)
	if err != nil {
		return nil, err
	}

	extractStart := time.Now()
	extracted, err := uc.FeatureExtractor.Extract(ctx, content, request.ImageHeader.Filename, modality)
	metrics.RecordCollaboratorCall(collaboratorFeatureExtraction, err, time.Since(extractStart))
	if err != nil {
		return nil, err
	}
	if missing := models.MissingFeatures(extracted.Features); len(missing) > 0 {
		return nil, exceptions.ErrFeatureExtraction(fmt.Errorf("extracted features missing %v", missing))
	}

	return uc.recordImageEvidence(ctx, imageIntake{
		sessionID:   sessionID,
		patient:     patient,
		imageType:   string(modality),
		features:    extracted.Features,
		dimensions:  extracted.Dimensions,
		imageObject: objectName,
	})
}

type imageIntake struct {
	sessionID   string
	patient     models.PatientInfo
	imageType   string
	features    map[string]float64
	dimensions  models.ImageDimensions
	imageObject string
}

// recordImageEvidence overwrites the patient info and imaging evidence of the session.
func (uc *workflowUsecase) recordImageEvidence(ctx context.Context, intake imageIntake) (*responses.AnalyzeImage, error) {
	modality, err := models.ParseModality(intake.imageType)
	if err != nil {
		return nil, exceptions.ErrUnsupportedModality(err, intake.imageType)
	}

	if missing := models.MissingFeatures(intake.features); len(missing) > 0 {
		return nil, exceptions.ErrMissingImageFeatures(nil, missing)
	}

	patient := intake.patient
	sessionID := uc.resolveSessionID(intake.sessionID, &patient)

	features := models.FeatureSetFromMap(intake.features)
	evidence := models.ImageEvidence{
		Modality:     modality,
		Features:     features,
		Dimensions:   intake.dimensions,
		Observations: uc.ObservationRuleEngine.Observe(features, modality),
		Disclaimer:   imaging.ImageDisclaimer,
		ImageObject:  intake.imageObject,
		AnalyzedAt:   uc.now(),
	}

	err = uc.withSessionLock(ctx, sessionID, func() error {
		if err := uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindPatientInfo, sessionID), patient); err != nil {
			return err
		}
		return uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindImagingResult, sessionID), evidence)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, models.WorkflowEvent{
		Topic:     models.EventTopicImageAnalyzed,
		SessionID: sessionID,
		PatientID: patient.PatientID,
		Data: map[string]interface{}{
			"image_type":         string(modality),
			"observations_count": len(evidence.Observations),
		},
	})

	return &responses.AnalyzeImage{
		SessionID:         sessionID,
		PatientID:         patient.PatientID,
		Modality:          modality,
		Observations:      evidence.Observations,
		ObservationsCount: len(evidence.Observations),
		Dimensions:        evidence.Dimensions,
		ImageObject:       evidence.ImageObject,
		Disclaimer:        evidence.Disclaimer,
	}, nil
}

func (uc *workflowUsecase) RecordLabs(ctx context.Context, request *requests.AnalyzeLabs) (*responses.AnalyzeLabs, error) {
	start := time.Now()
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("workflowUsecase.RecordLabs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.Int(constvars.LoggingLabTotalKey, len(request.LabData)),
	)

	response, err := uc.recordLabPanel(ctx, request.SessionID, request.LabData)
	metrics.RecordTransition(transitionRecordLabs, err, time.Since(start))
	if err != nil {
		uc.Log.Error("workflowUsecase.RecordLabs error recording lab evidence",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("workflowUsecase.RecordLabs succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.Int(constvars.LoggingAbnormalCountKey, response.AbnormalCount),
		zap.Int(constvars.LoggingCriticalCountKey, response.CriticalCount),
	)
	return response, nil
}

func (uc *workflowUsecase) RecordLabsCSV(ctx context.Context, request *requests.AnalyzeLabsCSV) (*responses.AnalyzeLabs, error) {
	start := time.Now()
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("workflowUsecase.RecordLabsCSV called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
	)

	entries, err := laboratory.ParseCSV(request.CSV)
	if err == nil && len(entries) == 0 {
		err = errors.New("csv contains no numeric lab rows")
	}
	if err != nil {
		metrics.RecordTransition(transitionRecordLabs, err, time.Since(start))
		uc.Log.Error("workflowUsecase.RecordLabsCSV error parsing csv",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvalidLabCSV(err)
	}

	response, err := uc.recordLabPanel(ctx, request.SessionID, entries)
	metrics.RecordTransition(transitionRecordLabs, err, time.Since(start))
	if err != nil {
		uc.Log.Error("workflowUsecase.RecordLabsCSV error recording lab evidence",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("workflowUsecase.RecordLabsCSV succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.Int(constvars.LoggingLabTotalKey, response.Summary.Total),
	)
	return response, nil
}

// recordLabPanel evaluates the panel and overwrites the lab evidence of the session.
func (uc *workflowUsecase) recordLabPanel(ctx context.Context, sessionID string, entries models.LabEntries) (*responses.AnalyzeLabs, error) {
	panel := uc.RangeEvaluator.EvaluatePanel(entries)
	panel.AnalyzedAt = uc.now()

	err := uc.withSessionLock(ctx, sessionID, func() error {
		return uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindLabResult, sessionID), panel)
	})
	if err != nil {
		return nil, err
	}

	for _, result := range panel.Results {
		metrics.RecordLabResult(string(result.Severity))
	}

	uc.publish(ctx, models.WorkflowEvent{
		Topic:     models.EventTopicLabsAnalyzed,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"total_tests":    panel.Summary.Total,
			"abnormal_count": panel.Summary.AbnormalCount,
			"critical_count": panel.Summary.CriticalCount,
		},
	})

	return &responses.AnalyzeLabs{
		SessionID:     sessionID,
		Summary:       panel.Summary,
		SummaryText:   panel.SummaryText,
		Results:       panel.Results,
		AbnormalCount: panel.Summary.AbnormalCount,
		CriticalCount: panel.Summary.CriticalCount,
	}, nil
}
