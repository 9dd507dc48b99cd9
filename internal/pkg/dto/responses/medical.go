package responses

import "medreport-service/internal/app/models"

type AnalyzeImage struct {
	SessionID         string                 `json:"session_id"`
	PatientID         string                 `json:"patient_id"`
	Modality          models.Modality        `json:"image_type"`
	Observations      []string               `json:"observations"`
	ObservationsCount int                    `json:"observations_count"`
	Dimensions        models.ImageDimensions `json:"image_dimensions"`
	ImageObject       string                 `json:"image_object,omitempty"`
	Disclaimer        string                 `json:"disclaimer"`
}

type AnalyzeLabs struct {
	SessionID     string                 `json:"session_id"`
	Summary       models.LabPanelSummary `json:"summary"`
	SummaryText   string                 `json:"summary_text"`
	Results       []models.LabTestResult `json:"results"`
	AbnormalCount int                    `json:"abnormal_count"`
	CriticalCount int                    `json:"critical_count"`
}

type GenerateReport struct {
	SessionID            string               `json:"session_id"`
	ReportID             string               `json:"report_id"`
	RequiresApproval     bool                 `json:"requires_approval"`
	RequiresUrgentReview bool                 `json:"requires_urgent_review"`
	Report               *models.ReportRecord `json:"report"`
}

type ApproveReport struct {
	SessionID string              `json:"session_id"`
	ReportID  string              `json:"report_id"`
	Status    models.ReportStatus `json:"status"`
	PDFURL    string              `json:"pdf_url,omitempty"`
}

type GetReport struct {
	SessionID string               `json:"session_id"`
	Status    models.ReportStatus  `json:"status"`
	Report    *models.ReportRecord `json:"report"`
	PDFURL    string               `json:"pdf_url,omitempty"`
}

// ReportDocument is a rendered report ready to stream to the caller.
type ReportDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}
