package models

import "time"

type ReportStatus string

const (
	ReportStatusDraft    ReportStatus = "draft"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

type FindingsStatus string

const (
	FindingsStatusPending   FindingsStatus = "pending"
	FindingsStatusCompleted FindingsStatus = "completed"
)

type PatientInfo struct {
	PatientID   string `json:"patient_id" bson:"patient_id" validate:"required"`
	PatientName string `json:"patient_name" bson:"patient_name"`
	Age         string `json:"age" bson:"age"`
	Gender      string `json:"gender" bson:"gender"`
	StudyDate   string `json:"study_date" bson:"study_date"`
}

type ImagingFindings struct {
	Status            FindingsStatus `json:"status" bson:"status"`
	Modality          string         `json:"image_type,omitempty" bson:"image_type,omitempty"`
	Findings          []string       `json:"findings" bson:"findings"`
	ObservationsCount int            `json:"observations_count" bson:"observations_count"`
}

type LaboratoryFindings struct {
	Status           FindingsStatus  `json:"status" bson:"status"`
	Findings         []string        `json:"findings" bson:"findings"`
	AbnormalFindings []LabTestResult `json:"abnormal_findings,omitempty" bson:"abnormal_findings,omitempty"`
	CriticalFindings []LabTestResult `json:"critical_findings,omitempty" bson:"critical_findings,omitempty"`
	AbnormalCount    int             `json:"abnormal_count" bson:"abnormal_count"`
	CriticalCount    int             `json:"critical_count" bson:"critical_count"`
}

type ReportMetadata struct {
	HasImaging           bool `json:"has_imaging" bson:"has_imaging"`
	HasLabs              bool `json:"has_labs" bson:"has_labs"`
	RequiresUrgentReview bool `json:"requires_urgent_review" bson:"requires_urgent_review"`
}

type ReportRecord struct {
	ReportID             string             `json:"report_id" bson:"report_id"`
	SessionID            string             `json:"session_id" bson:"session_id"`
	GeneratedDate        time.Time          `json:"generated_date" bson:"generated_date"`
	ReportVersion        string             `json:"report_version" bson:"report_version"`
	Status               ReportStatus       `json:"status" bson:"status"`
	RequiresApproval     bool               `json:"requires_approval" bson:"requires_approval"`
	PatientInfo          PatientInfo        `json:"patient_info" bson:"patient_info"`
	ExaminationSummary   string             `json:"examination_summary" bson:"examination_summary"`
	ImagingFindings      ImagingFindings    `json:"imaging_findings" bson:"imaging_findings"`
	LaboratoryFindings   LaboratoryFindings `json:"laboratory_findings" bson:"laboratory_findings"`
	InterpretiveNotes    []string           `json:"interpretive_notes" bson:"interpretive_notes"`
	Recommendations      []string           `json:"recommendations" bson:"recommendations"`
	Disclaimer           []string           `json:"disclaimer" bson:"disclaimer"`
	RequiresUrgentReview bool               `json:"requires_urgent_review" bson:"requires_urgent_review"`
	Metadata             ReportMetadata     `json:"metadata" bson:"metadata"`
	ReviewerName         string             `json:"reviewer_name,omitempty" bson:"reviewer_name,omitempty"`
	ReviewerComments     string             `json:"reviewer_comments,omitempty" bson:"reviewer_comments,omitempty"`
	ApprovedAt           *time.Time         `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	PDFObject            string             `json:"pdf_object,omitempty" bson:"pdf_object,omitempty"`
}

type RejectionRecord struct {
	ReportID         string    `json:"report_id" bson:"report_id"`
	SessionID        string    `json:"session_id" bson:"session_id"`
	ReviewerName     string    `json:"reviewer_name" bson:"reviewer_name"`
	ReviewerComments string    `json:"reviewer_comments,omitempty" bson:"reviewer_comments,omitempty"`
	RejectedAt       time.Time `json:"rejected_at" bson:"rejected_at"`
}

// PDFReference points at a rendered report document in object storage.
type PDFReference struct {
	ReportID   string    `json:"report_id" bson:"report_id"`
	Bucket     string    `json:"bucket" bson:"bucket"`
	ObjectName string    `json:"object_name" bson:"object_name"`
	Size       int64     `json:"size" bson:"size"`
	RenderedAt time.Time `json:"rendered_at" bson:"rendered_at"`
}

func (r PDFReference) FileName() string {
	return r.ReportID + ".pdf"
}
