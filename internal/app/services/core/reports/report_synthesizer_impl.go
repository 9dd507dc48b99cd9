package reports

import (
	"fmt"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/utils"
	"strconv"
	"strings"
	"time"
)

const (
	ReportVersion = "1.0.0"

	notAvailable = "N/A"
)

var imagingReviewMarkers = []string{"review recommended", "correlation"}

type reportSynthesizer struct {
	now         func() time.Time
	newReportID func(time.Time) string
}

func NewReportSynthesizer() contracts.ReportSynthesizer {
	return &reportSynthesizer{
		now:         time.Now,
		newReportID: utils.GenerateReportID,
	}
}

// Synthesize never fails: missing evidence turns into pending sections.
func (s *reportSynthesizer) Synthesize(sessionID string, patient models.PatientInfo, imaging *models.ImageEvidence, labs *models.LabPanelResult) models.ReportRecord {
	now := s.now()
	urgent := labs.HasCritical()

	return models.ReportRecord{
		ReportID:             s.newReportID(now),
		SessionID:            sessionID,
		GeneratedDate:        now,
		ReportVersion:        ReportVersion,
		Status:               models.ReportStatusDraft,
		RequiresApproval:     true,
		PatientInfo:          patientSection(patient, now),
		ExaminationSummary:   examinationSummary(imaging, labs),
		ImagingFindings:      imagingFindings(imaging),
		LaboratoryFindings:   laboratoryFindings(labs),
		InterpretiveNotes:    interpretiveNotes(imaging, labs),
		Recommendations:      recommendations(urgent),
		Disclaimer:           Disclaimer(),
		RequiresUrgentReview: urgent,
		Metadata: models.ReportMetadata{
			HasImaging:           imaging != nil,
			HasLabs:              labs != nil,
			RequiresUrgentReview: urgent,
		},
	}
}

func patientSection(patient models.PatientInfo, now time.Time) models.PatientInfo {
	orDefault := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	}
	return models.PatientInfo{
		PatientID:   orDefault(patient.PatientID, notAvailable),
		PatientName: orDefault(patient.PatientName, notAvailable),
		Age:         orDefault(patient.Age, notAvailable),
		Gender:      orDefault(patient.Gender, notAvailable),
		StudyDate:   orDefault(patient.StudyDate, now.Format("2006-01-02")),
	}
}

func examinationSummary(imaging *models.ImageEvidence, labs *models.LabPanelResult) string {
	var parts []string
	if imaging != nil {
		parts = append(parts, fmt.Sprintf("%s imaging study completed. Image quality assessed and processed for diagnostic review.", imaging.Modality.Label()))
	}
	if labs != nil {
		outOfRange := labs.Summary.AbnormalCount + labs.Summary.CriticalCount
		parts = append(parts, fmt.Sprintf("Laboratory panel consisting of %d tests analyzed. %d value(s) outside normal reference ranges.", labs.Summary.Total, outOfRange))
	}
	if len(parts) == 0 {
		return "Examination data pending."
	}
	return strings.Join(parts, " ")
}

func imagingFindings(imaging *models.ImageEvidence) models.ImagingFindings {
	if imaging == nil {
		return models.ImagingFindings{
			Status:   models.FindingsStatusPending,
			Findings: []string{"Imaging analysis pending or unavailable."},
		}
	}

	label := imaging.Modality.Label()
	findings := []string{label + " EXAMINATION:", ""}
	for idx, observation := range imaging.Observations {
		findings = append(findings, fmt.Sprintf("%d. %s", idx+1, observation))
	}
	if !imaging.Dimensions.IsZero() {
		findings = append(findings, "", fmt.Sprintf("Technical details: Image resolution %d×%d pixels.", imaging.Dimensions.Width, imaging.Dimensions.Height))
	}

	return models.ImagingFindings{
		Status:            models.FindingsStatusCompleted,
		Modality:          label,
		Findings:          findings,
		ObservationsCount: len(imaging.Observations),
	}
}

func laboratoryFindings(labs *models.LabPanelResult) models.LaboratoryFindings {
	if labs == nil {
		return models.LaboratoryFindings{
			Status:   models.FindingsStatusPending,
			Findings: []string{"Laboratory analysis pending or unavailable."},
		}
	}

	findings := []string{"LABORATORY RESULTS:", ""}
	if labs.SummaryText != "" {
		findings = append(findings, "Summary: "+labs.SummaryText, "")
	}

	findings = append(findings, "Detailed Results:")
	for _, result := range labs.Results {
		findings = append(findings, resultLine(result))
	}

	switch {
	case len(labs.CriticalFindings) > 0:
		findings = append(findings, "", "CRITICAL VALUES:")
		for _, result := range labs.CriticalFindings {
			findings = append(findings, fmt.Sprintf("  • %s: %s", result.TestName, result.Interpretation))
		}
	case len(labs.AbnormalFindings) > 0:
		findings = append(findings, "", "ABNORMAL VALUES:")
		for _, result := range labs.AbnormalFindings {
			findings = append(findings, fmt.Sprintf("  • %s: %s", result.TestName, result.Interpretation))
		}
	}

	return models.LaboratoryFindings{
		Status:           models.FindingsStatusCompleted,
		Findings:         findings,
		AbnormalFindings: labs.AbnormalFindings,
		CriticalFindings: labs.CriticalFindings,
		AbnormalCount:    len(labs.AbnormalFindings),
		CriticalCount:    len(labs.CriticalFindings),
	}
}

func resultLine(result models.LabTestResult) string {
	if !result.Severity.IsEvaluated() {
		value := result.RawValue
		if result.Value != nil {
			value = strconv.FormatFloat(*result.Value, 'f', -1, 64)
		}
		return fmt.Sprintf("  %s: %s (%s)", result.TestName, value, result.Interpretation)
	}
	return fmt.Sprintf("  %s %s: %s %s (Reference: %s)",
		result.Flag,
		result.TestName,
		strconv.FormatFloat(*result.Value, 'f', -1, 64),
		result.Unit,
		result.ReferenceRange,
	)
}

func interpretiveNotes(imaging *models.ImageEvidence, labs *models.LabPanelResult) []string {
	notes := []string{"INTERPRETIVE NOTES:", ""}

	hasCritical := labs.HasCritical()
	if hasCritical {
		notes = append(notes, "• Critical laboratory values identified requiring immediate clinical attention.")
	}

	hasImagingFlag := imaging != nil && anyObservationFlagged(imaging.Observations)
	if hasImagingFlag {
		notes = append(notes, "• Imaging findings noted require radiologist review and clinical correlation.")
	}

	hasAbnormalLabs := labs != nil && labs.Summary.AbnormalCount > 0
	if hasAbnormalLabs {
		notes = append(notes, "• Laboratory abnormalities require clinical correlation with patient presentation.")
	}

	if !hasCritical && !hasImagingFlag && !hasAbnormalLabs {
		notes = append(notes,
			"• Examination findings within expected parameters.",
			"• Routine clinical follow-up as appropriate.",
		)
	} else {
		notes = append(notes, "• Comprehensive clinical assessment recommended.")
	}

	return append(notes, "• These findings are AI-generated and require expert medical review.")
}

func anyObservationFlagged(observations []string) bool {
	for _, observation := range observations {
		lower := strings.ToLower(observation)
		for _, marker := range imagingReviewMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

func recommendations(urgent bool) []string {
	var lines []string
	if urgent {
		lines = []string{
			"1. Immediate physician review recommended for critical values.",
			"2. Clinical correlation with patient symptoms and history.",
			"3. Consider repeat testing if clinically indicated.",
		}
	} else {
		lines = []string{
			"1. Radiologist review and interpretation required.",
			"2. Clinical correlation with patient presentation recommended.",
			"3. Follow-up imaging or laboratory studies as clinically indicated.",
		}
	}
	return append(lines, "4. All findings should be interpreted in the context of complete patient evaluation.")
}

// Disclaimer returns a fresh copy of the fixed boilerplate attached to every report.
func Disclaimer() []string {
	rule := strings.Repeat("═", 80)
	return []string{
		"",
		rule,
		"IMPORTANT DISCLAIMER",
		rule,
		"",
		"This report is AI-GENERATED and is intended as a DRAFT for review purposes only.",
		"",
		"• NOT a medical diagnosis or treatment recommendation",
		"• NOT a substitute for professional medical judgment",
		"• MUST be reviewed and validated by a licensed radiologist/physician",
		"• AI analysis may contain errors or omissions",
		"• Clinical correlation with patient history and examination is essential",
		"",
		"This draft report requires human expert review and approval before clinical use.",
		"",
		rule,
	}
}
