package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"
)

const (
	AnalyzeImageSuccessMessage     = "image analysis completed successfully"
	AnalyzeLabsSuccessMessage      = "lab analysis completed successfully"
	GenerateReportSuccessMessage   = "draft report generated, awaiting radiologist review"
	ApproveReportSuccessMessage    = "report approved and PDF generated successfully"
	RejectReportSuccessMessage     = "report rejected and returned for revision"
	GetReportSuccessMessage        = "get report successfully"
	GetArchivedReportsSuccessfully = "get archived reports successfully"
	HealthCheckSuccessMessage      = "service is healthy"
)
