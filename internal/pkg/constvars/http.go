package constvars

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
)

const (
	MIMETextPlain       = "text/plain"
	MIMEApplicationJSON = "application/json"
	MIMEApplicationPDF  = "application/pdf"
	MIMEOctetStream     = "application/octet-stream"
	MIMEMultipartForm   = "multipart/form-data"
	MIMEImagePNG        = "image/png"
	MIMEImageJPEG       = "image/jpeg"
	MIMEImageBMP        = "image/bmp"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusRequestTooLarge     = 413
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	HeaderAccept             = "Accept"
	HeaderAuthorization      = "Authorization"
	HeaderCacheControl       = "Cache-Control"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderXRequestID         = "X-Request-ID"
	HeaderXCSRFToken         = "X-CSRF-Token"
	HeaderLink               = "Link"
)

const (
	CacheControlNoCache        = "no-cache"
	ContentDispositionFormat   = `attachment; filename="%s"`
	MultipartFormFieldImage    = "image"
	MultipartFormFieldFile     = "file"
	MultipartFormFieldImageTyp = "image_type"
)
