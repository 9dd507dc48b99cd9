package routers

import (
	"medreport-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachMedicalRoutes(router chi.Router, medicalController *controllers.MedicalController) {
	router.Post("/analyze-image", medicalController.AnalyzeImage)
	router.Post("/analyze-image/upload", medicalController.AnalyzeImageUpload)
	router.Post("/analyze-labs", medicalController.AnalyzeLabs)
	router.Post("/analyze-labs/csv", medicalController.AnalyzeLabsCSV)
	router.Post("/generate-report", medicalController.GenerateReport)
	router.Post("/approve-report", medicalController.ApproveReport)
	router.Get("/report/{session_id}", medicalController.GetReport)
	router.Get("/report/{session_id}/download", medicalController.DownloadReport)
	router.Get("/patients/{patient_id}/reports", medicalController.GetArchivedReports)
}
