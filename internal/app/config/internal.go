package config

import "time"

type InternalConfig struct {
	App           App
	Workflow      AppWorkflow
	Minio         AppMinio
	RabbitMQ      AppRabbitMQ
	ImageAnalysis AppImageAnalysis
	Mongo         AppMongo
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeout            int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	RequestTimeoutInSeconds    int
}

// AppWorkflow tunes the session workflow. A zero StateTTLInHours keeps
// session state until it is overwritten.
type AppWorkflow struct {
	StateTTLInHours               int
	SessionLockTTLInSeconds       int
	SessionLockWaitInSeconds      int
	PDFRenderTimeoutInSeconds     int
	UrgentReviewCronSpec          string
	UrgentReviewMinimumAgeMinutes int
}

type AppMinio struct {
	ReportBucketName                  string
	ImageBucketName                   string
	ImageMaxUploadSizeInMB            int
	PreSignedUrlObjectExpiryTimeInHrs int
}

type AppRabbitMQ struct {
	ReportEventsQueue string
}

type AppImageAnalysis struct {
	BaseUrl              string
	HTTPTimeoutInSeconds int
	RequestsPerSecond    int
}

type AppMongo struct {
	ArchiveCollection string
}

func (w AppWorkflow) StateTTL() time.Duration {
	return time.Duration(w.StateTTLInHours) * time.Hour
}

func (w AppWorkflow) SessionLockTTL() time.Duration {
	return time.Duration(w.SessionLockTTLInSeconds) * time.Second
}

func (w AppWorkflow) SessionLockWait() time.Duration {
	return time.Duration(w.SessionLockWaitInSeconds) * time.Second
}

func (w AppWorkflow) PDFRenderTimeout() time.Duration {
	return time.Duration(w.PDFRenderTimeoutInSeconds) * time.Second
}

func (w AppWorkflow) UrgentReviewMinimumAge() time.Duration {
	return time.Duration(w.UrgentReviewMinimumAgeMinutes) * time.Minute
}

func (m AppMinio) PreSignedUrlExpiry() time.Duration {
	return time.Duration(m.PreSignedUrlObjectExpiryTimeInHrs) * time.Hour
}
