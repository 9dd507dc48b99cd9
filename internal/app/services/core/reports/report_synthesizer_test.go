package reports

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/core/imaging"
	"medreport-service/internal/app/services/core/laboratory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 12, 16, 9, 30, 15, 0, time.UTC)

func newTestSynthesizer() *reportSynthesizer {
	return &reportSynthesizer{
		now:         func() time.Time { return fixedNow },
		newReportID: func(t time.Time) string { return "RPT-" + t.Format("20060102-150405") + "-test" },
	}
}

func testPatient() models.PatientInfo {
	return models.PatientInfo{PatientID: "P12345", PatientName: "Test Patient", Age: "45", Gender: "M", StudyDate: "2025-12-16"}
}

func labPanel(entries models.LabEntries) *models.LabPanelResult {
	panel := laboratory.NewRangeEvaluator(laboratory.StandardReferenceRanges()).EvaluatePanel(entries)
	return &panel
}

func imageEvidence(features models.FeatureSet, modality models.Modality) *models.ImageEvidence {
	return &models.ImageEvidence{
		Modality:     modality,
		Features:     features,
		Dimensions:   models.ImageDimensions{Height: 768, Width: 1024},
		Observations: imaging.NewObservationRuleEngine().Observe(features, modality),
	}
}

func TestSynthesize_PatientInfoOnly(t *testing.T) {
	report := newTestSynthesizer().Synthesize("S-1", testPatient(), nil, nil)

	assert.Equal(t, models.ReportStatusDraft, report.Status)
	assert.True(t, report.RequiresApproval)
	assert.Equal(t, "RPT-20251216-093015-test", report.ReportID)
	assert.Equal(t, "S-1", report.SessionID)
	assert.Equal(t, ReportVersion, report.ReportVersion)
	assert.Equal(t, "Examination data pending.", report.ExaminationSummary)
	assert.Equal(t, models.FindingsStatusPending, report.ImagingFindings.Status)
	assert.Equal(t, []string{"Imaging analysis pending or unavailable."}, report.ImagingFindings.Findings)
	assert.Equal(t, models.FindingsStatusPending, report.LaboratoryFindings.Status)
	assert.Equal(t, []string{"Laboratory analysis pending or unavailable."}, report.LaboratoryFindings.Findings)
	assert.False(t, report.RequiresUrgentReview)
	assert.Equal(t, models.ReportMetadata{}, report.Metadata)
	assert.Equal(t, []string{
		"INTERPRETIVE NOTES:",
		"",
		"• Examination findings within expected parameters.",
		"• Routine clinical follow-up as appropriate.",
		"• These findings are AI-generated and require expert medical review.",
	}, report.InterpretiveNotes)
	assert.Equal(t, "1. Radiologist review and interpretation required.", report.Recommendations[0])
	assert.Equal(t, Disclaimer(), report.Disclaimer)
}

func TestSynthesize_DefaultsMissingPatientFields(t *testing.T) {
	report := newTestSynthesizer().Synthesize("S-1", models.PatientInfo{PatientID: "P1"}, nil, nil)

	assert.Equal(t, "P1", report.PatientInfo.PatientID)
	assert.Equal(t, "N/A", report.PatientInfo.PatientName)
	assert.Equal(t, "N/A", report.PatientInfo.Age)
	assert.Equal(t, "2025-12-16", report.PatientInfo.StudyDate)
}

func TestSynthesize_CriticalLabs(t *testing.T) {
	labs := labPanel(models.LabEntries{
		{Name: "hemoglobin", Value: 6.5},
		{Name: "glucose", Value: 95.0},
		{Name: "sodium", Value: 150.0},
	})

	report := newTestSynthesizer().Synthesize("S-2", testPatient(), nil, labs)

	assert.True(t, report.RequiresUrgentReview)
	assert.True(t, report.Metadata.RequiresUrgentReview)
	assert.True(t, report.Metadata.HasLabs)
	assert.False(t, report.Metadata.HasImaging)
	assert.Equal(t, "Laboratory panel consisting of 3 tests analyzed. 2 value(s) outside normal reference ranges.", report.ExaminationSummary)

	findings := report.LaboratoryFindings
	assert.Equal(t, models.FindingsStatusCompleted, findings.Status)
	assert.Equal(t, 1, findings.CriticalCount)
	assert.Equal(t, 1, findings.AbnormalCount)
	assert.Equal(t, []string{
		"LABORATORY RESULTS:",
		"",
		"Summary: 1 critical value(s) requiring immediate attention. 1 abnormal value(s) noted.",
		"",
		"Detailed Results:",
		"  ⚠️ CRITICAL LOW Hemoglobin: 6.5 g/dL (Reference: 12-16)",
		"  ✓ Glucose: 95 mg/dL (Reference: 70-100)",
		"  ↑ HIGH Sodium: 150 mEq/L (Reference: 136-145)",
		"",
		"CRITICAL VALUES:",
		"  • Hemoglobin: Value critically below normal range. Immediate clinical attention recommended.",
	}, findings.Findings)
	assert.NotContains(t, findings.Findings, "ABNORMAL VALUES:")

	assert.Equal(t, []string{
		"INTERPRETIVE NOTES:",
		"",
		"• Critical laboratory values identified requiring immediate clinical attention.",
		"• Laboratory abnormalities require clinical correlation with patient presentation.",
		"• Comprehensive clinical assessment recommended.",
		"• These findings are AI-generated and require expert medical review.",
	}, report.InterpretiveNotes)

	assert.Equal(t, []string{
		"1. Immediate physician review recommended for critical values.",
		"2. Clinical correlation with patient symptoms and history.",
		"3. Consider repeat testing if clinically indicated.",
		"4. All findings should be interpreted in the context of complete patient evaluation.",
	}, report.Recommendations)
}

func TestSynthesize_AbnormalBlockWithoutCritical(t *testing.T) {
	labs := labPanel(models.LabEntries{
		{Name: "hemoglobin", Value: 11.5},
		{Name: "potassium", Value: 3.8},
	})

	report := newTestSynthesizer().Synthesize("S-3", testPatient(), nil, labs)

	findings := report.LaboratoryFindings.Findings
	assert.Equal(t, "ABNORMAL VALUES:", findings[len(findings)-2])
	assert.Equal(t, "  • Hemoglobin: Value below normal range. Clinical correlation advised.", findings[len(findings)-1])
	assert.False(t, report.RequiresUrgentReview)
	assert.Len(t, report.Recommendations, 4)
	assert.Equal(t, "1. Radiologist review and interpretation required.", report.Recommendations[0])
}

func TestSynthesize_CriticalNeverInAbnormalBlock(t *testing.T) {
	labs := labPanel(models.LabEntries{
		{Name: "hemoglobin", Value: 25.0},
		{Name: "glucose", Value: 30.0},
		{Name: "calcium", Value: 8.0},
	})

	report := newTestSynthesizer().Synthesize("S-4", testPatient(), nil, labs)

	for _, abnormal := range report.LaboratoryFindings.AbnormalFindings {
		assert.False(t, abnormal.Severity.IsCritical())
	}
	var bullets []string
	for _, line := range report.LaboratoryFindings.Findings {
		if strings.HasPrefix(line, "  • ") {
			bullets = append(bullets, line)
		}
	}
	assert.Len(t, bullets, 2)
	assert.NotContains(t, strings.Join(bullets, "\n"), "Calcium")
}

func TestSynthesize_ImagingFindings(t *testing.T) {
	evidence := imageEvidence(models.FeatureSet{
		TextureVariance:   500,
		MeanIntensity:     120,
		BrightRegionRatio: 0.2,
		EdgeDensity:       0.05,
	}, models.ModalityXRay)

	report := newTestSynthesizer().Synthesize("S-5", testPatient(), evidence, nil)

	assert.Equal(t, "XRAY imaging study completed. Image quality assessed and processed for diagnostic review.", report.ExaminationSummary)
	assert.Equal(t, models.ImagingFindings{
		Status:   models.FindingsStatusCompleted,
		Modality: "XRAY",
		Findings: []string{
			"XRAY EXAMINATION:",
			"",
			"1. Image quality: Adequate for diagnostic assessment.",
			"2. Overall density: Within expected range.",
			"3. Notable lucent regions identified. Further radiologist review recommended.",
			"4. Radiographic examination completed. Standard positioning maintained.",
			"",
			"Technical details: Image resolution 1024×768 pixels.",
		},
		ObservationsCount: 4,
	}, report.ImagingFindings)
	assert.Contains(t, report.InterpretiveNotes, "• Imaging findings noted require radiologist review and clinical correlation.")
	assert.Contains(t, report.InterpretiveNotes, "• Comprehensive clinical assessment recommended.")
}

func TestSynthesize_BothEvidence(t *testing.T) {
	evidence := imageEvidence(models.FeatureSet{TextureVariance: 500, MeanIntensity: 120, EdgeDensity: 0.05}, models.ModalityMRI)
	labs := labPanel(models.LabEntries{{Name: "glucose", Value: 90.0}})

	report := newTestSynthesizer().Synthesize("S-6", testPatient(), evidence, labs)

	assert.Equal(t, "MRI imaging study completed. Image quality assessed and processed for diagnostic review. "+
		"Laboratory panel consisting of 1 tests analyzed. 0 value(s) outside normal reference ranges.", report.ExaminationSummary)
	assert.True(t, report.Metadata.HasImaging)
	assert.True(t, report.Metadata.HasLabs)
	assert.Contains(t, report.InterpretiveNotes, "• Examination findings within expected parameters.")
	assert.Contains(t, report.LaboratoryFindings.Findings, "Summary: All values within normal reference ranges.")
}

func TestSynthesize_UnevaluatedResultLines(t *testing.T) {
	labs := labPanel(models.LabEntries{
		{Name: "glucose", Value: "abc"},
		{Name: "vitamin_q", Value: 3.0},
	})

	report := newTestSynthesizer().Synthesize("S-7", testPatient(), nil, labs)

	assert.Contains(t, report.LaboratoryFindings.Findings, "  glucose: abc (Invalid numeric value: abc)")
	assert.Contains(t, report.LaboratoryFindings.Findings, "  vitamin_q: 3 (Reference range not available for this test)")
}

func TestDisclaimer(t *testing.T) {
	disclaimer := Disclaimer()
	require.Len(t, disclaimer, 16)
	assert.Equal(t, strings.Repeat("═", 80), disclaimer[1])
	assert.Equal(t, "IMPORTANT DISCLAIMER", disclaimer[2])

	disclaimer[2] = "changed"
	assert.Equal(t, "IMPORTANT DISCLAIMER", Disclaimer()[2])
}

func TestNewReportSynthesizer_UniqueIDs(t *testing.T) {
	synthesizer := NewReportSynthesizer()

	var (
		mu  sync.Mutex
		ids = make(map[string]struct{})
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report := synthesizer.Synthesize(fmt.Sprintf("S-%d", i), testPatient(), nil, nil)
			mu.Lock()
			ids[report.ReportID] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, 50)
}
