package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s in length",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of %s",
	"modality": "must be one of xray, mri, ct",

	"image_features": "must include mean_intensity, edge_density, texture_variance, bright_region_ratio and dark_region_ratio",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientUnsupportedModality           = "unsupported image type, must be one of xray, mri, ct"
	ErrClientInvalidImageFormat            = "unsupported image format, allowed: .jpg, .jpeg, .png, .bmp"
	ErrClientPatientInfoNotFound           = "patient information not found, please complete image analysis first"
	ErrClientDraftReportNotFound           = "draft report not found"
	ErrClientReportNotFound                = "report not found"
	ErrClientPDFNotFound                   = "PDF report not found, ensure the report has been approved"
	ErrClientSessionBusy                   = "another change to this session is in progress, please retry"
	ErrClientImageAnalysisFailed           = "image analysis service failed to process the image"
	ErrClientReportRenderFailed            = "failed to render the report document"
	ErrClientInvalidLabCSV                 = "lab results CSV is malformed"
	ErrClientMissingImageFeatures          = "image features are incomplete, missing: %s"
	ErrClientRequestBodyTooLarge           = "request body exceeds the %d MB limit"
)

// Error messages for developers
const (
	ErrDevCannotParseJSON          = "cannot parse JSON"
	ErrDevCannotMarshalJSON        = "cannot marshal JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form"
	ErrDevValidationFailed         = "validation failed"
	ErrDevURLParamValidationFailed = "URL param %s validation failed"
	ErrDevImageValidationFailed    = "image validation failed"
	ErrDevUnsupportedModality      = "unsupported modality %q"
	ErrDevInvalidLabCSV            = "invalid lab CSV"
	ErrDevMissingImageFeatures     = "image features missing %v"
	ErrDevRequestBodyTooLarge      = "request body exceeds configured limit"

	ErrDevPatientInfoNotFound = "patient info not found for session %s"
	ErrDevDraftReportNotFound = "draft report not found for session %s"
	ErrDevReportNotFound      = "no final or draft report for session %s"
	ErrDevPDFNotFound         = "pdf reference not found for session %s"
	ErrDevSessionBusy         = "could not acquire lock for session %s"

	ErrDevFeatureExtraction = "image feature extraction failed"
	ErrDevRenderPDF         = "pdf rendering failed for report %s"

	ErrDevRedisGetData          = "failed to get data from redis for key %s"
	ErrDevRedisSetData          = "failed to set data into redis"
	ErrDevRedisDeleteData       = "failed to delete data from redis"
	ErrDevRedisSAdd             = "failed to add members into redis set"
	ErrDevRedisSRem             = "failed to remove members from redis set"
	ErrDevRedisSMembers         = "failed to get redis set members"
	ErrDevRedisUnlock           = "failed to release redis lock"
	ErrDevStoredStateCorrupted  = "stored state for key %s cannot be decoded"
	ErrDevMinioCreateObject     = "failed to create object on bucket %s"
	ErrDevMinioGetObject        = "failed to get object from bucket %s"
	ErrDevMinioPresignedURL     = "failed to create presigned url on bucket %s"
	ErrDevMongoDBUpsertDocument = "failed to upsert document into database"
	ErrDevMongoDBFindDocument   = "failed when do find document on database"
	ErrDevRabbitMQPublish       = "failed to publish message to queue %s"
	ErrDevCreateHTTPRequest     = "failed to create HTTP request"
	ErrDevSendHTTPRequest       = "failed to send HTTP request"
	ErrDevServerProcess         = "server failed to process request"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
)
