package laboratory

import (
	"medreport-service/internal/app/models"
	"strconv"
)

type ReferenceRange struct {
	Name         string
	Low          float64
	High         float64
	CriticalLow  *float64
	CriticalHigh *float64
	Unit         string
}

// Classify applies critical bounds before normal bounds, so a value under both
// critical_low and low is critical_low.
func (r ReferenceRange) Classify(value float64) models.Severity {
	switch {
	case r.CriticalLow != nil && value < *r.CriticalLow:
		return models.SeverityCriticalLow
	case r.CriticalHigh != nil && value > *r.CriticalHigh:
		return models.SeverityCriticalHigh
	case value < r.Low:
		return models.SeverityLow
	case value > r.High:
		return models.SeverityHigh
	}
	return models.SeverityNormal
}

func (r ReferenceRange) Text() string {
	return formatNumber(r.Low) + "-" + formatNumber(r.High)
}

// ReferenceRangeTable is an immutable lookup of canonical test identity to range.
type ReferenceRangeTable struct {
	ranges map[string]ReferenceRange
}

func NewReferenceRangeTable(ranges map[string]ReferenceRange) ReferenceRangeTable {
	copied := make(map[string]ReferenceRange, len(ranges))
	for identity, ref := range ranges {
		copied[NormalizeTestName(identity)] = ref
	}
	return ReferenceRangeTable{ranges: copied}
}

func (t ReferenceRangeTable) Lookup(identity string) (ReferenceRange, bool) {
	ref, ok := t.ranges[identity]
	return ref, ok
}

func (t ReferenceRangeTable) Len() int {
	return len(t.ranges)
}

func ptr(f float64) *float64 {
	return &f
}

// StandardReferenceRanges returns the adult reference ranges for common
// hematology, chemistry and lipid tests. A missing critical bound is nil.
func StandardReferenceRanges() ReferenceRangeTable {
	return NewReferenceRangeTable(map[string]ReferenceRange{
		// Hematology
		"hemoglobin": {Name: "Hemoglobin", Low: 12.0, High: 16.0, CriticalLow: ptr(7.0), CriticalHigh: ptr(20.0), Unit: "g/dL"},
		"wbc":        {Name: "White Blood Cell Count", Low: 4.0, High: 11.0, CriticalLow: ptr(2.0), CriticalHigh: ptr(30.0), Unit: "×10³/μL"},
		"platelets":  {Name: "Platelet Count", Low: 150, High: 400, CriticalLow: ptr(50), CriticalHigh: ptr(1000), Unit: "×10³/μL"},
		"hematocrit": {Name: "Hematocrit", Low: 36, High: 48, CriticalLow: ptr(20), CriticalHigh: ptr(60), Unit: "%"},
		"rbc":        {Name: "Red Blood Cell Count", Low: 4.0, High: 5.5, CriticalLow: ptr(2.0), CriticalHigh: ptr(7.0), Unit: "×10⁶/μL"},

		// Chemistry
		"glucose":         {Name: "Glucose", Low: 70, High: 100, CriticalLow: ptr(40), CriticalHigh: ptr(400), Unit: "mg/dL"},
		"creatinine":      {Name: "Creatinine", Low: 0.6, High: 1.2, CriticalLow: ptr(0.2), CriticalHigh: ptr(10.0), Unit: "mg/dL"},
		"bun":             {Name: "Blood Urea Nitrogen", Low: 7, High: 20, CriticalLow: ptr(2), CriticalHigh: ptr(100), Unit: "mg/dL"},
		"sodium":          {Name: "Sodium", Low: 136, High: 145, CriticalLow: ptr(120), CriticalHigh: ptr(160), Unit: "mEq/L"},
		"potassium":       {Name: "Potassium", Low: 3.5, High: 5.0, CriticalLow: ptr(2.5), CriticalHigh: ptr(7.0), Unit: "mEq/L"},
		"calcium":         {Name: "Calcium", Low: 8.5, High: 10.5, CriticalLow: ptr(6.0), CriticalHigh: ptr(14.0), Unit: "mg/dL"},
		"alt":             {Name: "ALT (Liver)", Low: 7, High: 56, CriticalHigh: ptr(1000), Unit: "U/L"},
		"ast":             {Name: "AST (Liver)", Low: 10, High: 40, CriticalHigh: ptr(1000), Unit: "U/L"},
		"bilirubin_total": {Name: "Total Bilirubin", Low: 0.1, High: 1.2, CriticalHigh: ptr(20), Unit: "mg/dL"},

		// Lipid panel
		"cholesterol_total": {Name: "Total Cholesterol", Low: 125, High: 200, CriticalHigh: ptr(500), Unit: "mg/dL"},
		"hdl":               {Name: "HDL Cholesterol", Low: 40, High: 60, CriticalLow: ptr(10), CriticalHigh: ptr(150), Unit: "mg/dL"},
		"ldl":               {Name: "LDL Cholesterol", Low: 0, High: 100, CriticalHigh: ptr(300), Unit: "mg/dL"},
		"triglycerides":     {Name: "Triglycerides", Low: 0, High: 150, CriticalHigh: ptr(1000), Unit: "mg/dL"},
	})
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
