package controllers

import (
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/utils"
	"net/http"
)

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, map[string]string{
		"status": constvars.ResponseSuccess,
	})
}
