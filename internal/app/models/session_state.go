package models

import "time"

type StateKind string

const (
	StateKindPatientInfo   StateKind = "patient_info"
	StateKindImagingResult StateKind = "imaging_result"
	StateKindLabResult     StateKind = "lab_result"
	StateKindDraftReport   StateKind = "draft_report"
	StateKindFinalReport   StateKind = "final_report"
	StateKindPDFPath       StateKind = "pdf_path"
	StateKindRejection     StateKind = "rejection"
)

// StateKey addresses one durable entry of a session.
type StateKey struct {
	Kind      StateKind
	SessionID string
}

func NewStateKey(kind StateKind, sessionID string) StateKey {
	return StateKey{Kind: kind, SessionID: sessionID}
}

func (k StateKey) String() string {
	return string(k.Kind) + "_" + k.SessionID
}

type EventTopic string

const (
	EventTopicImageAnalyzed       EventTopic = "image-analyzed"
	EventTopicLabsAnalyzed        EventTopic = "labs-analyzed"
	EventTopicReportGenerated     EventTopic = "report-generated"
	EventTopicReportApproved      EventTopic = "report-approved"
	EventTopicReportRejected      EventTopic = "report-rejected"
	EventTopicUrgentReviewPending EventTopic = "urgent-review-pending"
)

type WorkflowEvent struct {
	Topic      EventTopic             `json:"topic"`
	SessionID  string                 `json:"session_id"`
	PatientID  string                 `json:"patient_id,omitempty"`
	ReportID   string                 `json:"report_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
