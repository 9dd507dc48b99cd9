package utils

import (
	"errors"
	"fmt"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/responses"
	"medreport-service/internal/pkg/exceptions"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// BuildFileResponse streams a stored document as an attachment.
func BuildFileResponse(w http.ResponseWriter, contentType, fileName string, content []byte) {
	w.Header().Set(constvars.HeaderContentType, contentType)
	w.Header().Set(constvars.HeaderContentDisposition, fmt.Sprintf(constvars.ContentDispositionFormat, fileName))
	w.Header().Set(constvars.HeaderContentLength, fmt.Sprintf("%d", len(content)))
	w.WriteHeader(constvars.StatusOK)
	w.Write(content)
}

func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	code := constvars.StatusInternalServerError
	clientMessage := constvars.ErrClientSomethingWrongWithApplication

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		code = customErr.StatusCode
		clientMessage = customErr.ClientMessage
		log.Error(customErr.DevMessage,
			zap.Any("location", map[string]interface{}{
				"file":          customErr.Location.File,
				"line":          customErr.Location.Line,
				"function_name": customErr.Location.FunctionName,
			}),
		)
	} else {
		log.Error(err.Error())
	}

	response := responses.ErrorDTO{
		StatusCode: code,
		Success:    false,
		Message:    clientMessage,
	}
	appEnvironment := GetEnvString("APP_ENV", constvars.AppEnvDevelopment)
	if customErr != nil && appEnvironment != constvars.AppEnvProduction {
		response.DevMessage = customErr.DevMessage
		response.Location = fmt.Sprintf("%s:%d", customErr.Location.File, customErr.Location.Line)
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}
