package routers

import (
	"fmt"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/delivery/http/controllers"
	"medreport-service/internal/app/delivery/http/middlewares"
	"medreport-service/internal/app/services/shared/metrics"
	"medreport-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	medicalController *controllers.MedicalController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{constvars.MethodGet, constvars.MethodPost, constvars.MethodOptions},
		AllowedHeaders:   []string{constvars.HeaderAccept, constvars.HeaderContentType, constvars.HeaderXRequestID, constvars.HeaderXCSRFToken},
		ExposedHeaders:   []string{constvars.HeaderLink, constvars.HeaderXRequestID, constvars.HeaderContentDisposition},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	window := time.Duration(internalConfig.App.MaxTimeRequestsPerSeconds) * time.Second
	if window <= 0 {
		window = time.Second
	}
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, window))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(metrics.Middleware)

	router.Get("/health", controllers.HealthCheck)
	router.Handle("/metrics", metrics.Handler())

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/"+constvars.ResourceMedical, func(r chi.Router) {
				r.Use(middlewares.BodyLimit)
				r.Use(middlewares.RequestTimeout)
				attachMedicalRoutes(r, medicalController)
			})
		})
	})
}
