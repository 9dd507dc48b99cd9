package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MEDRPT_SVC_"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	ResourceMedical  = "medical"
	ResourcePatients = "patients"
)

const (
	MongoCollectionFinalReports = "final_reports"
)

const (
	RedisNamespaceMedicalReports = "medical_reports:"
	RedisSessionLockPrefix       = "medical_reports:lock:"
	RedisUrgentReviewSetKey      = "medical_reports:urgent_review_pending"
	RedisUrgentReviewWorkerLock  = "medical_reports:lock:urgent_review_worker"
)
