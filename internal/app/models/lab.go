package models

import (
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type Severity string

const (
	SeverityNormal       Severity = "normal"
	SeverityLow          Severity = "low"
	SeverityHigh         Severity = "high"
	SeverityCriticalLow  Severity = "critical_low"
	SeverityCriticalHigh Severity = "critical_high"
	SeverityUnknown      Severity = "unknown"
	SeverityInvalid      Severity = "invalid"
)

func (s Severity) IsCritical() bool {
	return s == SeverityCriticalLow || s == SeverityCriticalHigh
}

// IsAbnormal reports plain low/high only. Critical results live in their own bucket.
func (s Severity) IsAbnormal() bool {
	return s == SeverityLow || s == SeverityHigh
}

func (s Severity) IsEvaluated() bool {
	return s != SeverityUnknown && s != SeverityInvalid
}

type LabTestResult struct {
	TestIdentity   string   `json:"test_identity" bson:"test_identity"`
	TestName       string   `json:"test_name" bson:"test_name"`
	Value          *float64 `json:"value,omitempty" bson:"value,omitempty"`
	RawValue       string   `json:"raw_value,omitempty" bson:"raw_value,omitempty"`
	Unit           string   `json:"unit,omitempty" bson:"unit,omitempty"`
	ReferenceLow   *float64 `json:"reference_low,omitempty" bson:"reference_low,omitempty"`
	ReferenceHigh  *float64 `json:"reference_high,omitempty" bson:"reference_high,omitempty"`
	CriticalLow    *float64 `json:"critical_low,omitempty" bson:"critical_low,omitempty"`
	CriticalHigh   *float64 `json:"critical_high,omitempty" bson:"critical_high,omitempty"`
	ReferenceRange string   `json:"reference_range,omitempty" bson:"reference_range,omitempty"`
	Severity       Severity `json:"severity" bson:"severity"`
	Flag           string   `json:"flag,omitempty" bson:"flag,omitempty"`
	Interpretation string   `json:"interpretation" bson:"interpretation"`
}

type LabPanelSummary struct {
	Total            int `json:"total_tests" bson:"total_tests"`
	NormalCount      int `json:"normal_count" bson:"normal_count"`
	AbnormalCount    int `json:"abnormal_count" bson:"abnormal_count"`
	CriticalCount    int `json:"critical_count" bson:"critical_count"`
	UnevaluatedCount int `json:"unevaluated_count" bson:"unevaluated_count"`
}

type LabPanelResult struct {
	Summary          LabPanelSummary `json:"summary" bson:"summary"`
	SummaryText      string          `json:"summary_text" bson:"summary_text"`
	Results          []LabTestResult `json:"results" bson:"results"`
	AbnormalFindings []LabTestResult `json:"abnormal_findings" bson:"abnormal_findings"`
	CriticalFindings []LabTestResult `json:"critical_findings" bson:"critical_findings"`
	Disclaimer       string          `json:"disclaimer" bson:"disclaimer"`
	AnalyzedAt       time.Time       `json:"analyzed_at" bson:"analyzed_at"`
}

func (p *LabPanelResult) HasCritical() bool {
	return p != nil && len(p.CriticalFindings) > 0
}

// LabEntry is one caller-supplied test name with its raw, not yet coerced value.
type LabEntry struct {
	Name  string
	Value interface{}
}

// LabEntries keeps lab values in the order the caller sent them. Names that
// normalize to the same test collapse into one entry at the first position
// holding the last value.
type LabEntries []LabEntry

// NormalizeTestName case-folds and joins whitespace-separated words with underscores.
func NormalizeTestName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

func (e *LabEntries) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("lab data is not valid JSON")
	}
	parsed := gjson.ParseBytes(data)
	if parsed.Type == gjson.Null {
		*e = nil
		return nil
	}
	if !parsed.IsObject() {
		return errors.New("lab data must be an object of test name to value")
	}

	entries := LabEntries{}
	positions := make(map[string]int)
	parsed.ForEach(func(key, value gjson.Result) bool {
		name := NormalizeTestName(key.String())
		if idx, seen := positions[name]; seen {
			entries[idx].Value = value.Value()
			return true
		}
		positions[name] = len(entries)
		entries = append(entries, LabEntry{Name: key.String(), Value: value.Value()})
		return true
	})
	*e = entries
	return nil
}
