package main

import (
	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/delivery/http/controllers"
	"medreport-service/internal/app/delivery/http/middlewares"
	"medreport-service/internal/app/delivery/http/routers"
	"medreport-service/internal/app/services/core/imaging"
	"medreport-service/internal/app/services/core/laboratory"
	"medreport-service/internal/app/services/core/reports"
	"medreport-service/internal/app/services/core/workflow"
	"medreport-service/internal/app/services/shared/archive"
	"medreport-service/internal/app/services/shared/eventqueue"
	"medreport-service/internal/app/services/shared/featureextractor"
	"medreport-service/internal/app/services/shared/locker"
	"medreport-service/internal/app/services/shared/pdf"
	"medreport-service/internal/app/services/shared/redis"
	"medreport-service/internal/app/services/shared/sessionstate"
	"medreport-service/internal/app/services/shared/storage"
	"time"

	"github.com/minio/minio-go/v7"
)

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap, minioClient *minio.Client) error {
	internalConfig := bootstrap.InternalConfig

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	stateStore := sessionstate.NewRedisSessionStateStore(redisRepository, internalConfig.Workflow.StateTTL())

	// Minio
	objectStorage := storage.NewMinioStorage(minioClient)
	reportRenderer := pdf.NewPDFReportRenderer(objectStorage, internalConfig.Minio.ReportBucketName, bootstrap.Logger)

	// RabbitMQ
	eventPublisher, err := eventqueue.NewRabbitMQEventPublisher(bootstrap.RabbitMQ, internalConfig.RabbitMQ.ReportEventsQueue, bootstrap.Logger)
	if err != nil {
		return err
	}

	// MongoDB
	reportArchive := archive.NewReportMongoArchive(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
		internalConfig.Mongo.ArchiveCollection,
		bootstrap.Logger,
	)

	// Image analysis service
	featureExtractor := featureextractor.NewHTTPFeatureExtractor(
		internalConfig.ImageAnalysis.BaseUrl,
		time.Duration(internalConfig.ImageAnalysis.HTTPTimeoutInSeconds)*time.Second,
		internalConfig.ImageAnalysis.RequestsPerSecond,
		bootstrap.Logger,
	)

	// Workflow
	workflowUsecase := workflow.NewWorkflowUsecase(
		stateStore,
		lockerService,
		redisRepository,
		laboratory.NewRangeEvaluator(laboratory.StandardReferenceRanges()),
		imaging.NewObservationRuleEngine(),
		reports.NewReportSynthesizer(),
		reportRenderer,
		featureExtractor,
		objectStorage,
		eventPublisher,
		reportArchive,
		internalConfig,
		bootstrap.Logger,
	)

	urgentReviewWorker := workflow.NewUrgentReviewWorker(
		bootstrap.Logger,
		internalConfig,
		lockerService,
		redisRepository,
		stateStore,
		eventPublisher,
	)
	urgentReviewWorker.Start(ctx)
	bootstrap.WorkerStop = urgentReviewWorker.Stop

	// HTTP
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, internalConfig)
	medicalController := controllers.NewMedicalController(bootstrap.Logger, workflowUsecase, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, medicalController)
	return nil
}
