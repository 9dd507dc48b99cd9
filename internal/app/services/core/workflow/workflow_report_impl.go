package workflow

import (
	"context"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/shared/metrics"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/dto/responses"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

func (uc *workflowUsecase) Draft(ctx context.Context, request *requests.GenerateReport) (*responses.GenerateReport, error) {
	start := time.Now()
	requestID := utils.GetRequestID(ctx)
	sessionID := request.SessionID
	uc.Log.Info("workflowUsecase.Draft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	var report models.ReportRecord
	err := uc.withSessionLock(ctx, sessionID, func() error {
		var patient models.PatientInfo
		found, err := uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindPatientInfo, sessionID), &patient)
		if err != nil {
			return err
		}
		if !found {
			return exceptions.ErrPatientInfoNotFound(nil, sessionID)
		}

		var imagingEvidence *models.ImageEvidence
		var evidence models.ImageEvidence
		found, err = uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindImagingResult, sessionID), &evidence)
		if err != nil {
			return err
		}
		if found {
			imagingEvidence = &evidence
		}

		var labEvidence *models.LabPanelResult
		var panel models.LabPanelResult
		found, err = uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindLabResult, sessionID), &panel)
		if err != nil {
			return err
		}
		if found {
			labEvidence = &panel
		}

		report = uc.ReportSynthesizer.Synthesize(sessionID, patient, imagingEvidence, labEvidence)
		if err := uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindDraftReport, sessionID), report); err != nil {
			return err
		}
		return uc.trackUrgentReview(ctx, sessionID, report.RequiresUrgentReview)
	})
	metrics.RecordTransition(transitionDraft, err, time.Since(start))
	if err != nil {
		uc.Log.Error("workflowUsecase.Draft error generating draft report",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publish(ctx, models.WorkflowEvent{
		Topic:     models.EventTopicReportGenerated,
		SessionID: sessionID,
		PatientID: report.PatientInfo.PatientID,
		ReportID:  report.ReportID,
		Data: map[string]interface{}{
			"requires_urgent_review": report.RequiresUrgentReview,
			"has_imaging":            report.Metadata.HasImaging,
			"has_labs":               report.Metadata.HasLabs,
		},
	})

	uc.Log.Info("workflowUsecase.Draft succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingReportIDKey, report.ReportID),
		zap.Bool(constvars.LoggingUrgentReviewKey, report.RequiresUrgentReview),
	)
	return &responses.GenerateReport{
		SessionID:            sessionID,
		ReportID:             report.ReportID,
		RequiresApproval:     report.RequiresApproval,
		RequiresUrgentReview: report.RequiresUrgentReview,
		Report:               &report,
	}, nil
}

func (uc *workflowUsecase) Decide(ctx context.Context, request *requests.ApproveReport) (*responses.ApproveReport, error) {
	start := time.Now()
	requestID := utils.GetRequestID(ctx)
	sessionID := request.SessionID
	uc.Log.Info("workflowUsecase.Decide called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Bool(constvars.LoggingApprovedKey, request.Approved),
		zap.String(constvars.LoggingReviewerKey, request.ReviewerName),
	)

	var response *responses.ApproveReport
	var finalReport *models.ReportRecord
	err := uc.withSessionLock(ctx, sessionID, func() error {
		var draft models.ReportRecord
		found, err := uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindDraftReport, sessionID), &draft)
		if err != nil {
			return err
		}
		if !found {
			return exceptions.ErrDraftReportNotFound(nil, sessionID)
		}

		if !request.Approved {
			response, err = uc.reject(ctx, request, &draft)
			return err
		}

		finalReport, response, err = uc.approve(ctx, request, &draft)
		return err
	})
	metrics.RecordTransition(transitionDecide, err, time.Since(start))
	if err != nil {
		uc.Log.Error("workflowUsecase.Decide error recording decision",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.RecordDecision(request.Approved)

	if finalReport != nil {
		uc.archive(ctx, finalReport)
		response.PDFURL = uc.presignPDF(ctx, finalReport.PDFObject)
	}

	uc.Log.Info("workflowUsecase.Decide succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingReportIDKey, response.ReportID),
		zap.String(constvars.LoggingReportStatusKey, string(response.Status)),
	)
	return response, nil
}

// reject keeps the draft in place so it can be edited and decided again.
func (uc *workflowUsecase) reject(ctx context.Context, request *requests.ApproveReport, draft *models.ReportRecord) (*responses.ApproveReport, error) {
	rejection := models.RejectionRecord{
		ReportID:         draft.ReportID,
		SessionID:        request.SessionID,
		ReviewerName:     request.ReviewerName,
		ReviewerComments: request.ReviewerComments,
		RejectedAt:       uc.now(),
	}
	if err := uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindRejection, request.SessionID), rejection); err != nil {
		return nil, err
	}

	uc.publish(ctx, models.WorkflowEvent{
		Topic:     models.EventTopicReportRejected,
		SessionID: request.SessionID,
		PatientID: draft.PatientInfo.PatientID,
		ReportID:  draft.ReportID,
		Data: map[string]interface{}{
			"reviewer_name":     request.ReviewerName,
			"reviewer_comments": request.ReviewerComments,
		},
	})

	return &responses.ApproveReport{
		SessionID: request.SessionID,
		ReportID:  draft.ReportID,
		Status:    models.ReportStatusRejected,
	}, nil
}

func (uc *workflowUsecase) approve(ctx context.Context, request *requests.ApproveReport, draft *models.ReportRecord) (*models.ReportRecord, *responses.ApproveReport, error) {
	final := *draft
	if request.EditedReport != nil {
		final = *request.EditedReport
		if final.ReportID == "" {
			final.ReportID = draft.ReportID
		}
	}
	approvedAt := uc.now()
	final.SessionID = request.SessionID
	final.Status = models.ReportStatusApproved
	final.RequiresApproval = false
	final.ReviewerName = request.ReviewerName
	final.ReviewerComments = request.ReviewerComments
	final.ApprovedAt = &approvedAt

	renderCtx, cancel := context.WithTimeout(ctx, uc.InternalConfig.Workflow.PDFRenderTimeout())
	defer cancel()

	renderStart := time.Now()
	ref, err := uc.ReportRenderer.Render(renderCtx, &final)
	metrics.RecordCollaboratorCall(collaboratorPDFRenderer, err, time.Since(renderStart))
	if err != nil {
		if renderCtx.Err() == context.DeadlineExceeded {
			return nil, nil, exceptions.ErrRenderPDF(renderCtx.Err(), final.ReportID)
		}
		return nil, nil, err
	}
	final.PDFObject = ref.ObjectName

	if err := uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindFinalReport, request.SessionID), final); err != nil {
		return nil, nil, err
	}
	if err := uc.StateStore.Save(ctx, models.NewStateKey(models.StateKindPDFPath, request.SessionID), ref); err != nil {
		return nil, nil, err
	}
	if err := uc.trackUrgentReview(ctx, request.SessionID, false); err != nil {
		return nil, nil, err
	}

	uc.publish(ctx, models.WorkflowEvent{
		Topic:     models.EventTopicReportApproved,
		SessionID: request.SessionID,
		PatientID: final.PatientInfo.PatientID,
		ReportID:  final.ReportID,
		Data: map[string]interface{}{
			"reviewer_name": request.ReviewerName,
			"pdf_object":    ref.ObjectName,
		},
	})

	return &final, &responses.ApproveReport{
		SessionID: request.SessionID,
		ReportID:  final.ReportID,
		Status:    models.ReportStatusApproved,
	}, nil
}

// Get prefers the finalized report over any later draft of the session.
func (uc *workflowUsecase) Get(ctx context.Context, request *requests.GetReport) (*responses.GetReport, error) {
	requestID := utils.GetRequestID(ctx)
	sessionID := request.SessionID
	uc.Log.Info("workflowUsecase.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	var final models.ReportRecord
	found, err := uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindFinalReport, sessionID), &final)
	if err != nil {
		return nil, err
	}
	if found {
		uc.Log.Info("workflowUsecase.Get succeeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReportIDKey, final.ReportID),
			zap.String(constvars.LoggingReportStatusKey, string(models.ReportStatusApproved)),
		)
		return &responses.GetReport{
			SessionID: sessionID,
			Status:    models.ReportStatusApproved,
			Report:    &final,
			PDFURL:    uc.presignPDF(ctx, final.PDFObject),
		}, nil
	}

	var draft models.ReportRecord
	found, err = uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindDraftReport, sessionID), &draft)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, exceptions.ErrReportNotFound(nil, sessionID)
	}

	uc.Log.Info("workflowUsecase.Get succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReportIDKey, draft.ReportID),
		zap.String(constvars.LoggingReportStatusKey, string(models.ReportStatusDraft)),
	)
	return &responses.GetReport{
		SessionID: sessionID,
		Status:    models.ReportStatusDraft,
		Report:    &draft,
	}, nil
}

func (uc *workflowUsecase) DownloadPDF(ctx context.Context, request *requests.GetReport) (*responses.ReportDocument, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("workflowUsecase.DownloadPDF called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
	)

	var ref models.PDFReference
	found, err := uc.StateStore.Load(ctx, models.NewStateKey(models.StateKindPDFPath, request.SessionID), &ref)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, exceptions.ErrPDFNotFound(nil, request.SessionID)
	}

	content, err := uc.Storage.GetObject(ctx, ref.Bucket, ref.ObjectName)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("workflowUsecase.DownloadPDF succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReportIDKey, ref.ReportID),
		zap.Int(constvars.LoggingFileSizeKey, len(content)),
	)
	return &responses.ReportDocument{
		FileName:    ref.FileName(),
		ContentType: constvars.MIMEApplicationPDF,
		Content:     content,
	}, nil
}

func (uc *workflowUsecase) FindArchivedReports(ctx context.Context, request *requests.FindArchivedReports) ([]models.ReportRecord, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("workflowUsecase.FindArchivedReports called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	reports, err := uc.ReportArchive.FindByPatientID(ctx, request.PatientID)
	if err != nil {
		uc.Log.Error("workflowUsecase.FindArchivedReports error querying archive",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("workflowUsecase.FindArchivedReports succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("reports_count", len(reports)),
	)
	return reports, nil
}
