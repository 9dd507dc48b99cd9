package requests

import (
	"medreport-service/internal/app/models"
	"mime/multipart"
)

type AnalyzeImage struct {
	SessionID   string                 `json:"session_id"`
	PatientID   string                 `json:"patient_id" validate:"required"`
	PatientName string                 `json:"patient_name"`
	Age         string                 `json:"age"`
	Gender      string                 `json:"gender"`
	StudyDate   string                 `json:"study_date"`
	ImageType   string                 `json:"image_type" validate:"required,modality"`
	Features    map[string]float64     `json:"features" validate:"required,image_features"`
	Dimensions  models.ImageDimensions `json:"dimensions"`
}

func (r *AnalyzeImage) PatientInfo() models.PatientInfo {
	return models.PatientInfo{
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Age:         r.Age,
		Gender:      r.Gender,
		StudyDate:   r.StudyDate,
	}
}

type AnalyzeImageUpload struct {
	SessionID   string
	PatientID   string `validate:"required"`
	PatientName string
	Age         string
	Gender      string
	StudyDate   string
	ImageType   string                `validate:"required,modality"`
	Image       multipart.File        `validate:"required"`
	ImageHeader *multipart.FileHeader `validate:"required"`
}

func (r *AnalyzeImageUpload) PatientInfo() models.PatientInfo {
	return models.PatientInfo{
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Age:         r.Age,
		Gender:      r.Gender,
		StudyDate:   r.StudyDate,
	}
}

type AnalyzeLabs struct {
	SessionID string            `json:"session_id" validate:"required"`
	LabData   models.LabEntries `json:"lab_data" validate:"required"`
}

type AnalyzeLabsCSV struct {
	SessionID string `json:"session_id" validate:"required"`
	CSV       string `json:"csv" validate:"required"`
}

type GenerateReport struct {
	SessionID string `json:"session_id" validate:"required"`
}

type ApproveReport struct {
	SessionID        string               `json:"session_id" validate:"required"`
	ReportID         string               `json:"report_id"`
	Approved         bool                 `json:"approved"`
	ReviewerName     string               `json:"reviewer_name" validate:"required"`
	ReviewerComments string               `json:"reviewer_comments"`
	EditedReport     *models.ReportRecord `json:"edited_report,omitempty"`
}

type GetReport struct {
	SessionID string `validate:"required"`
}

type FindArchivedReports struct {
	PatientID string `validate:"required"`
}
