package pdf

import (
	"context"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"
	"time"

	"go.uber.org/zap"
)

type pdfReportRenderer struct {
	Storage contracts.Storage
	Bucket  string
	Log     *zap.Logger
	now     func() time.Time
}

// NewPDFReportRenderer renders reports with fpdf and stores the document as
// {report_id}.pdf in the given bucket.
func NewPDFReportRenderer(storage contracts.Storage, bucket string, logger *zap.Logger) contracts.ReportRenderer {
	return &pdfReportRenderer{
		Storage: storage,
		Bucket:  bucket,
		Log:     logger,
		now:     time.Now,
	}
}

func (r *pdfReportRenderer) Render(ctx context.Context, report *models.ReportRecord) (*models.PDFReference, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("pdfReportRenderer.Render called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReportIDKey, report.ReportID),
	)

	renderedAt := r.now()
	content, err := buildDocument(report, renderedAt)
	if err != nil {
		r.Log.Error("pdfReportRenderer.Render error building document",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReportIDKey, report.ReportID),
			zap.Error(err),
		)
		return nil, exceptions.ErrRenderPDF(err, report.ReportID)
	}

	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrRenderPDF(err, report.ReportID)
	}

	ref := &models.PDFReference{
		ReportID:   report.ReportID,
		Bucket:     r.Bucket,
		RenderedAt: renderedAt,
	}
	objectName, err := r.Storage.UploadBytes(ctx, content, r.Bucket, ref.FileName(), constvars.MIMEApplicationPDF)
	if err != nil {
		r.Log.Error("pdfReportRenderer.Render error uploading document",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketKey, r.Bucket),
			zap.Error(err),
		)
		return nil, err
	}
	ref.ObjectName = objectName
	ref.Size = int64(len(content))

	r.Log.Info("pdfReportRenderer.Render succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReportIDKey, report.ReportID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
		zap.Int64(constvars.LoggingFileSizeKey, ref.Size),
	)
	return ref, nil
}
