package laboratory

import (
	"testing"

	"medreport-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Classification(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())

	tests := []struct {
		name     string
		testName string
		value    interface{}
		severity models.Severity
		flag     string
	}{
		{"below critical and normal low", "hemoglobin", 6.5, models.SeverityCriticalLow, "⚠️ CRITICAL LOW"},
		{"above critical high", "hemoglobin", 21.0, models.SeverityCriticalHigh, "⚠️ CRITICAL HIGH"},
		{"low but above critical", "hemoglobin", 11.5, models.SeverityLow, "↓ LOW"},
		{"high but below critical", "glucose", 110, models.SeverityHigh, "↑ HIGH"},
		{"normal", "sodium", 138, models.SeverityNormal, "✓"},
		{"on the low bound", "potassium", 3.5, models.SeverityNormal, "✓"},
		{"on the critical low bound", "hemoglobin", 7.0, models.SeverityLow, "↓ LOW"},
		{"no critical low defined", "alt", 1, models.SeverityLow, "↓ LOW"},
		{"numeric string", "glucose", " 95 ", models.SeverityNormal, "✓"},
		{"wrapped value object", "glucose", map[string]interface{}{"value": 35.0}, models.SeverityCriticalLow, "⚠️ CRITICAL LOW"},
		{"name is normalized", "Bilirubin  Total", 0.5, models.SeverityNormal, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluator.Evaluate(tt.testName, tt.value)
			assert.Equal(t, tt.severity, result.Severity)
			assert.Equal(t, tt.flag, result.Flag)
			require.NotNil(t, result.Value)
		})
	}
}

func TestEvaluate_CriticalTakesPrecedence(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())
	table := StandardReferenceRanges()

	for _, identity := range []string{"hemoglobin", "wbc", "platelets", "glucose", "sodium", "potassium", "hdl"} {
		ref, ok := table.Lookup(identity)
		require.True(t, ok)
		require.NotNil(t, ref.CriticalLow)

		for _, delta := range []float64{0.001, 0.5, 1, 10} {
			result := evaluator.Evaluate(identity, *ref.CriticalLow-delta)
			assert.Equal(t, models.SeverityCriticalLow, result.Severity, "%s at %v", identity, *ref.CriticalLow-delta)
		}
	}
}

func TestEvaluate_ResultFields(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())

	result := evaluator.Evaluate("Hemoglobin", 6.5)

	assert.Equal(t, "hemoglobin", result.TestIdentity)
	assert.Equal(t, "Hemoglobin", result.TestName)
	assert.Equal(t, 6.5, *result.Value)
	assert.Equal(t, "g/dL", result.Unit)
	assert.Equal(t, "12-16", result.ReferenceRange)
	assert.Equal(t, 7.0, *result.CriticalLow)
	assert.Equal(t, "Value critically below normal range. Immediate clinical attention recommended.", result.Interpretation)
}

func TestEvaluate_UnknownAndInvalid(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())

	unknown := evaluator.Evaluate("vitamin_q", 12)
	assert.Equal(t, models.SeverityUnknown, unknown.Severity)
	assert.Equal(t, "Reference range not available for this test", unknown.Interpretation)
	assert.Equal(t, 12.0, *unknown.Value)

	invalid := evaluator.Evaluate("glucose", "abc")
	assert.Equal(t, models.SeverityInvalid, invalid.Severity)
	assert.Nil(t, invalid.Value)
	assert.Equal(t, "abc", invalid.RawValue)
	assert.Equal(t, "Invalid numeric value: abc", invalid.Interpretation)

	assert.Equal(t, models.SeverityInvalid, evaluator.Evaluate("glucose", nil).Severity)
	assert.Equal(t, models.SeverityInvalid, evaluator.Evaluate("glucose", true).Severity)
	assert.Equal(t, models.SeverityInvalid, evaluator.Evaluate("glucose", "NaN").Severity)
	assert.Equal(t, models.SeverityInvalid, evaluator.Evaluate("glucose", map[string]interface{}{"unit": "mg/dL"}).Severity)
}

func TestEvaluatePanel_CriticalHemoglobinScenario(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())

	panel := evaluator.EvaluatePanel(models.LabEntries{
		{Name: "hemoglobin", Value: 6.5},
		{Name: "glucose", Value: 95.0},
		{Name: "sodium", Value: 138.0},
	})

	require.Len(t, panel.Results, 3)
	assert.Equal(t, models.SeverityCriticalLow, panel.Results[0].Severity)
	assert.Equal(t, models.SeverityNormal, panel.Results[1].Severity)
	assert.Equal(t, models.SeverityNormal, panel.Results[2].Severity)

	assert.Equal(t, 3, panel.Summary.Total)
	assert.Equal(t, 1, panel.Summary.CriticalCount)
	assert.Equal(t, 0, panel.Summary.AbnormalCount)
	assert.Equal(t, 2, panel.Summary.NormalCount)
	assert.Len(t, panel.CriticalFindings, 1)
	assert.Empty(t, panel.AbnormalFindings)
	assert.Equal(t, "1 critical value(s) requiring immediate attention.", panel.SummaryText)
	assert.Equal(t, LabDisclaimer, panel.Disclaimer)
}

func TestEvaluatePanel_PreservesOrderAndCounts(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())

	entries := models.LabEntries{
		{Name: "sodium", Value: 150.0},
		{Name: "mystery", Value: 1.0},
		{Name: "hemoglobin", Value: 25.0},
		{Name: "glucose", Value: "n/a"},
		{Name: "potassium", Value: 4.0},
		{Name: "calcium", Value: 8.0},
	}
	panel := evaluator.EvaluatePanel(entries)

	identities := make([]string, 0, len(panel.Results))
	for _, result := range panel.Results {
		identities = append(identities, result.TestIdentity)
	}
	assert.Equal(t, []string{"sodium", "mystery", "hemoglobin", "glucose", "potassium", "calcium"}, identities)

	summary := panel.Summary
	assert.Equal(t, summary.Total, summary.NormalCount+summary.AbnormalCount+summary.CriticalCount+summary.UnevaluatedCount)
	assert.Equal(t, 1, summary.NormalCount)
	assert.Equal(t, 2, summary.AbnormalCount)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 2, summary.UnevaluatedCount)

	for _, critical := range panel.CriticalFindings {
		for _, abnormal := range panel.AbnormalFindings {
			assert.NotEqual(t, critical.TestIdentity, abnormal.TestIdentity)
		}
	}
	assert.Equal(t, "1 critical value(s) requiring immediate attention. 2 abnormal value(s) noted. 2 value(s) could not be evaluated.", panel.SummaryText)
}

func TestEvaluatePanel_EmptyAndAllInvalid(t *testing.T) {
	evaluator := NewRangeEvaluator(StandardReferenceRanges())

	empty := evaluator.EvaluatePanel(nil)
	assert.Equal(t, models.LabPanelSummary{}, empty.Summary)
	assert.Empty(t, empty.Results)
	assert.Equal(t, "All values within normal reference ranges.", empty.SummaryText)

	invalid := evaluator.EvaluatePanel(models.LabEntries{
		{Name: "glucose", Value: "high"},
		{Name: "sodium", Value: nil},
	})
	assert.Equal(t, 2, invalid.Summary.Total)
	assert.Equal(t, 2, invalid.Summary.UnevaluatedCount)
	assert.Zero(t, invalid.Summary.NormalCount)
	assert.Len(t, invalid.Results, 2)
}

func TestReferenceRangeTable_IsIsolated(t *testing.T) {
	source := map[string]ReferenceRange{
		"Glucose": {Name: "Glucose", Low: 4, High: 6, Unit: "mmol/L"},
	}
	table := NewReferenceRangeTable(source)
	source["Glucose"] = ReferenceRange{Name: "changed"}

	ref, ok := table.Lookup("glucose")
	require.True(t, ok)
	assert.Equal(t, "mmol/L", ref.Unit)

	siEvaluator := NewRangeEvaluator(table)
	usEvaluator := NewRangeEvaluator(StandardReferenceRanges())
	assert.Equal(t, models.SeverityNormal, siEvaluator.Evaluate("glucose", 5).Severity)
	assert.Equal(t, models.SeverityCriticalLow, usEvaluator.Evaluate("glucose", 5).Severity)
}
