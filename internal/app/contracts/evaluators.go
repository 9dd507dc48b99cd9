package contracts

import "medreport-service/internal/app/models"

type RangeEvaluator interface {
	Evaluate(testName string, rawValue interface{}) models.LabTestResult
	EvaluatePanel(entries models.LabEntries) models.LabPanelResult
}

type ObservationRuleEngine interface {
	Observe(features models.FeatureSet, modality models.Modality) []string
}

type ReportSynthesizer interface {
	Synthesize(sessionID string, patient models.PatientInfo, imaging *models.ImageEvidence, labs *models.LabPanelResult) models.ReportRecord
}
