package laboratory

import (
	"fmt"
	"math"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	LabDisclaimer = "Laboratory results for clinical correlation only. Not a medical diagnosis."

	messageUnknownTest  = "Reference range not available for this test"
	messageInvalidValue = "Invalid numeric value: %s"
)

var severityFlags = map[models.Severity]string{
	models.SeverityCriticalLow:  "⚠️ CRITICAL LOW",
	models.SeverityCriticalHigh: "⚠️ CRITICAL HIGH",
	models.SeverityLow:          "↓ LOW",
	models.SeverityHigh:         "↑ HIGH",
	models.SeverityNormal:       "✓",
}

var severityInterpretations = map[models.Severity]string{
	models.SeverityCriticalLow:  "Value critically below normal range. Immediate clinical attention recommended.",
	models.SeverityCriticalHigh: "Value critically above normal range. Immediate clinical attention recommended.",
	models.SeverityLow:          "Value below normal range. Clinical correlation advised.",
	models.SeverityHigh:         "Value above normal range. Clinical correlation advised.",
	models.SeverityNormal:       "Value within normal range.",
}

type rangeEvaluator struct {
	table ReferenceRangeTable
}

func NewRangeEvaluator(table ReferenceRangeTable) contracts.RangeEvaluator {
	return &rangeEvaluator{table: table}
}

func (e *rangeEvaluator) Evaluate(testName string, rawValue interface{}) models.LabTestResult {
	identity := NormalizeTestName(testName)

	value, ok := coerceNumeric(rawValue)
	if !ok {
		raw := formatRawValue(rawValue)
		return models.LabTestResult{
			TestIdentity:   identity,
			TestName:       testName,
			RawValue:       raw,
			Severity:       models.SeverityInvalid,
			Interpretation: fmt.Sprintf(messageInvalidValue, raw),
		}
	}

	ref, found := e.table.Lookup(identity)
	if !found {
		return models.LabTestResult{
			TestIdentity:   identity,
			TestName:       testName,
			Value:          &value,
			Severity:       models.SeverityUnknown,
			Interpretation: messageUnknownTest,
		}
	}

	severity := ref.Classify(value)
	return models.LabTestResult{
		TestIdentity:   identity,
		TestName:       ref.Name,
		Value:          &value,
		Unit:           ref.Unit,
		ReferenceLow:   ptr(ref.Low),
		ReferenceHigh:  ptr(ref.High),
		CriticalLow:    ref.CriticalLow,
		CriticalHigh:   ref.CriticalHigh,
		ReferenceRange: ref.Text(),
		Severity:       severity,
		Flag:           severityFlags[severity],
		Interpretation: severityInterpretations[severity],
	}
}

// EvaluatePanel keeps the caller's entry order. Critical results go to the
// critical bucket only; invalid and unknown results are counted as unevaluated.
func (e *rangeEvaluator) EvaluatePanel(entries models.LabEntries) models.LabPanelResult {
	panel := models.LabPanelResult{
		Results:          make([]models.LabTestResult, 0, len(entries)),
		AbnormalFindings: []models.LabTestResult{},
		CriticalFindings: []models.LabTestResult{},
		Disclaimer:       LabDisclaimer,
	}

	for _, entry := range entries {
		result := e.Evaluate(entry.Name, entry.Value)
		panel.Results = append(panel.Results, result)

		switch {
		case result.Severity.IsCritical():
			panel.CriticalFindings = append(panel.CriticalFindings, result)
			panel.Summary.CriticalCount++
		case result.Severity.IsAbnormal():
			panel.AbnormalFindings = append(panel.AbnormalFindings, result)
			panel.Summary.AbnormalCount++
		case result.Severity == models.SeverityNormal:
			panel.Summary.NormalCount++
		default:
			panel.Summary.UnevaluatedCount++
		}
	}
	panel.Summary.Total = len(panel.Results)
	panel.SummaryText = summarize(panel.Summary)

	return panel
}

func summarize(summary models.LabPanelSummary) string {
	var parts []string
	if summary.CriticalCount > 0 {
		parts = append(parts, fmt.Sprintf("%d critical value(s) requiring immediate attention.", summary.CriticalCount))
	}
	if summary.AbnormalCount > 0 {
		parts = append(parts, fmt.Sprintf("%d abnormal value(s) noted.", summary.AbnormalCount))
	}
	if summary.UnevaluatedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d value(s) could not be evaluated.", summary.UnevaluatedCount))
	}
	if len(parts) == 0 {
		return "All values within normal reference ranges."
	}
	return strings.Join(parts, " ")
}

func NormalizeTestName(name string) string {
	return models.NormalizeTestName(name)
}

func coerceNumeric(raw interface{}) (float64, bool) {
	if object, ok := raw.(map[string]interface{}); ok {
		inner, exists := object["value"]
		if !exists {
			return 0, false
		}
		raw = inner
	}

	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int32:
		value = float64(v)
	case int64:
		value = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		value = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func formatRawValue(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		return v
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return string(encoded)
}
