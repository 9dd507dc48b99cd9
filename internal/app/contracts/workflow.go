package contracts

import (
	"context"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/dto/responses"
)

type WorkflowUsecase interface {
	RecordImage(ctx context.Context, request *requests.AnalyzeImage) (*responses.AnalyzeImage, error)
	RecordImageUpload(ctx context.Context, request *requests.AnalyzeImageUpload) (*responses.AnalyzeImage, error)
	RecordLabs(ctx context.Context, request *requests.AnalyzeLabs) (*responses.AnalyzeLabs, error)
	RecordLabsCSV(ctx context.Context, request *requests.AnalyzeLabsCSV) (*responses.AnalyzeLabs, error)
	Draft(ctx context.Context, request *requests.GenerateReport) (*responses.GenerateReport, error)
	Decide(ctx context.Context, request *requests.ApproveReport) (*responses.ApproveReport, error)
	Get(ctx context.Context, request *requests.GetReport) (*responses.GetReport, error)
	DownloadPDF(ctx context.Context, request *requests.GetReport) (*responses.ReportDocument, error)
	FindArchivedReports(ctx context.Context, request *requests.FindArchivedReports) ([]models.ReportRecord, error)
}
