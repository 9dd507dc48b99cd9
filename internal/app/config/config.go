package config

import (
	"medreport-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medical_reports"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeout:            utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 1),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 12),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 60),
		},
		Workflow: AppWorkflow{
			StateTTLInHours:               utils.GetEnvInt("WORKFLOW_STATE_TTL_IN_HOURS", 0),
			SessionLockTTLInSeconds:       utils.GetEnvInt("WORKFLOW_SESSION_LOCK_TTL_IN_SECONDS", 90),
			SessionLockWaitInSeconds:      utils.GetEnvInt("WORKFLOW_SESSION_LOCK_WAIT_IN_SECONDS", 10),
			PDFRenderTimeoutInSeconds:     utils.GetEnvInt("WORKFLOW_PDF_RENDER_TIMEOUT_IN_SECONDS", 30),
			UrgentReviewCronSpec:          utils.GetEnvString("WORKFLOW_URGENT_REVIEW_CRON_SPEC", "@every 5m"),
			UrgentReviewMinimumAgeMinutes: utils.GetEnvInt("WORKFLOW_URGENT_REVIEW_MINIMUM_AGE_IN_MINUTES", 15),
		},
		Minio: AppMinio{
			ReportBucketName:                  utils.GetEnvString("APP_MINIO_REPORT_BUCKET_NAME", "medical-reports"),
			ImageBucketName:                   utils.GetEnvString("APP_MINIO_IMAGE_BUCKET_NAME", "medical-images"),
			ImageMaxUploadSizeInMB:            utils.GetEnvInt("APP_MINIO_IMAGE_MAX_UPLOAD_SIZE_IN_MB", 10),
			PreSignedUrlObjectExpiryTimeInHrs: utils.GetEnvInt("APP_MINIO_PRE_SIGNED_URL_OBJECT_EXPIRY_TIME_IN_HOURS", 1),
		},
		RabbitMQ: AppRabbitMQ{
			ReportEventsQueue: utils.GetEnvString("APP_RABBITMQ_REPORT_EVENTS_QUEUE", "medical_report_events"),
		},
		ImageAnalysis: AppImageAnalysis{
			BaseUrl:              utils.GetEnvString("IMAGE_ANALYSIS_BASE_URL", "http://localhost:8001"),
			HTTPTimeoutInSeconds: utils.GetEnvInt("IMAGE_ANALYSIS_HTTP_TIMEOUT_IN_SECONDS", 60),
			RequestsPerSecond:    utils.GetEnvInt("IMAGE_ANALYSIS_REQUESTS_PER_SECOND", 5),
		},
		Mongo: AppMongo{
			ArchiveCollection: utils.GetEnvString("APP_MONGODB_ARCHIVE_COLLECTION", "final_reports"),
		},
	}
}
