package controllers

import (
	"errors"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MedicalController struct {
	Log             *zap.Logger
	WorkflowUsecase contracts.WorkflowUsecase
	InternalConfig  *config.InternalConfig
}

func NewMedicalController(logger *zap.Logger, workflowUsecase contracts.WorkflowUsecase, internalConfig *config.InternalConfig) *MedicalController {
	return &MedicalController{
		Log:             logger,
		WorkflowUsecase: workflowUsecase,
		InternalConfig:  internalConfig,
	}
}

func (ctrl *MedicalController) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.AnalyzeImage)
	err := decodeJSON(r, request, ctrl.InternalConfig.App.RequestBodyLimitInMegabyte)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.WorkflowUsecase.RecordImage(r.Context(), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "image_analyzed", requestID,
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.Int(constvars.LoggingObservationsCount, response.ObservationsCount),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AnalyzeImageSuccessMessage, response)
}

func (ctrl *MedicalController) AnalyzeImageUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	maxMemory := int64(ctrl.InternalConfig.Minio.ImageMaxUploadSizeInMB) << 20
	err := r.ParseMultipartForm(maxMemory)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrRequestBodyTooLarge(err, ctrl.InternalConfig.App.RequestBodyLimitInMegabyte))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile(constvars.MultipartFormFieldImage)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	request := &requests.AnalyzeImageUpload{
		SessionID:   r.FormValue(constvars.FormFieldSessionID),
		PatientID:   r.FormValue(constvars.FormFieldPatientID),
		PatientName: r.FormValue(constvars.FormFieldPatientName),
		Age:         r.FormValue(constvars.FormFieldAge),
		Gender:      r.FormValue(constvars.FormFieldGender),
		StudyDate:   r.FormValue(constvars.FormFieldStudyDate),
		ImageType:   r.FormValue(constvars.FormFieldImageType),
		Image:       file,
		ImageHeader: fileHeader,
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.WorkflowUsecase.RecordImageUpload(r.Context(), request)
	if err != nil {
		ctrl.Log.Error("MedicalController.AnalyzeImageUpload error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "image_uploaded_and_analyzed", requestID,
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.String(constvars.LoggingObjectNameKey, response.ImageObject),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AnalyzeImageSuccessMessage, response)
}

func (ctrl *MedicalController) AnalyzeLabs(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.AnalyzeLabs)
	err := decodeJSON(r, request, ctrl.InternalConfig.App.RequestBodyLimitInMegabyte)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.WorkflowUsecase.RecordLabs(r.Context(), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "labs_analyzed", requestID,
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.Int(constvars.LoggingCriticalCountKey, response.CriticalCount),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AnalyzeLabsSuccessMessage, response)
}

func (ctrl *MedicalController) AnalyzeLabsCSV(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.AnalyzeLabsCSV)
	err := decodeJSON(r, request, ctrl.InternalConfig.App.RequestBodyLimitInMegabyte)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.WorkflowUsecase.RecordLabsCSV(r.Context(), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "labs_csv_analyzed", requestID,
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.Int(constvars.LoggingLabTotalKey, response.Summary.Total),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AnalyzeLabsSuccessMessage, response)
}

func (ctrl *MedicalController) GenerateReport(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.GenerateReport)
	err := decodeJSON(r, request, ctrl.InternalConfig.App.RequestBodyLimitInMegabyte)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.WorkflowUsecase.Draft(r.Context(), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "report_drafted", requestID,
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.String(constvars.LoggingReportIDKey, response.ReportID),
		zap.Bool(constvars.LoggingUrgentReviewKey, response.RequiresUrgentReview),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GenerateReportSuccessMessage, response)
}

func (ctrl *MedicalController) ApproveReport(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.ApproveReport)
	err := decodeJSON(r, request, ctrl.InternalConfig.App.RequestBodyLimitInMegabyte)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.WorkflowUsecase.Decide(r.Context(), request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "report_decided", requestID,
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
		zap.String(constvars.LoggingReportIDKey, response.ReportID),
		zap.Bool(constvars.LoggingApprovedKey, request.Approved),
		zap.String(constvars.LoggingReviewerKey, request.ReviewerName),
	)

	message := constvars.RejectReportSuccessMessage
	if request.Approved {
		message = constvars.ApproveReportSuccessMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, response)
}

func (ctrl *MedicalController) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	err := utils.ValidateUrlParam(sessionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamSessionID))
		return
	}

	response, err := ctrl.WorkflowUsecase.Get(r.Context(), &requests.GetReport{SessionID: sessionID})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetReportSuccessMessage, response)
}

func (ctrl *MedicalController) DownloadReport(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	err := utils.ValidateUrlParam(sessionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamSessionID))
		return
	}

	document, err := ctrl.WorkflowUsecase.DownloadPDF(r.Context(), &requests.GetReport{SessionID: sessionID})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "report_downloaded", requestID,
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Int(constvars.LoggingFileSizeKey, len(document.Content)),
	)
	utils.BuildFileResponse(w, document.ContentType, document.FileName, document.Content)
}

func (ctrl *MedicalController) GetArchivedReports(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, constvars.URLParamPatientID)
	err := utils.ValidateUrlParam(patientID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamPatientID))
		return
	}

	reports, err := ctrl.WorkflowUsecase.FindArchivedReports(r.Context(), &requests.FindArchivedReports{PatientID: patientID})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, usecaseError(err))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetArchivedReportsSuccessfully, reports)
}
