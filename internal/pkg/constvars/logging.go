package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingDataKey           = "data"
	LoggingRequestKey        = "request"
	LoggingResponseKey       = "response"
	LoggingErrorKey          = "error"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingIsClientRequestID = "is_client_request_id"

	LoggingSessionIDKey      = "session_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingReportIDKey       = "report_id"
	LoggingReportStatusKey   = "report_status"
	LoggingModalityKey       = "modality"
	LoggingObservationsCount = "observations_count"
	LoggingLabTotalKey       = "lab_total"
	LoggingAbnormalCountKey  = "abnormal_count"
	LoggingCriticalCountKey  = "critical_count"
	LoggingUrgentReviewKey   = "requires_urgent_review"
	LoggingApprovedKey       = "approved"
	LoggingReviewerKey       = "reviewer"
	LoggingStateKey          = "state_key"
	LoggingPDFObjectKey      = "pdf_object"
	LoggingBucketKey         = "bucket"
	LoggingObjectNameKey     = "object_name"
	LoggingFileSizeKey       = "file_size"
	LoggingEventTopicKey     = "event_topic"
	LoggingQueueKey          = "queue"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingLockAttemptsKey       = "lock_attempts"
)
