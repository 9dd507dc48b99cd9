package exceptions

import (
	"errors"
	"fmt"
	"medreport-service/internal/pkg/constvars"
	"runtime"
)

type CustomError struct {
	StatusCode    int      `json:"status_code"`
	Success       bool     `json:"success"`
	ClientMessage string   `json:"message"`
	DevMessage    string   `json:"-"`
	Location      Location `json:"-"`
	cause         error
}

type Location struct {
	File         string
	Line         int
	FunctionName string
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, e.Location.File, e.Location.Line, e.Location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// BuildNewCustomError records the location of the caller of the error
// constructor in types.go, not the constructor itself.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	customErr := &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Location:      getLocation(3),
		cause:         err,
	}
	if err != nil {
		customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return customErr
}

// StatusCodeOf returns the HTTP status carried by err, or 500.
func StatusCodeOf(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.StatusCode
	}
	return constvars.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return StatusCodeOf(err) == constvars.StatusNotFound
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
