package contracts

import (
	"context"
	"medreport-service/internal/app/models"
)

type FeatureExtractor interface {
	Extract(ctx context.Context, image []byte, fileName string, modality models.Modality) (*models.ExtractedFeatures, error)
}

type ReportRenderer interface {
	Render(ctx context.Context, report *models.ReportRecord) (*models.PDFReference, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.WorkflowEvent) error
}

type ReportArchive interface {
	Upsert(ctx context.Context, report *models.ReportRecord) error
	FindByPatientID(ctx context.Context, patientID string) ([]models.ReportRecord, error)
}
