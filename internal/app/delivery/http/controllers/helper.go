package controllers

import (
	"context"
	"errors"
	"io"
	"medreport-service/internal/pkg/exceptions"
	"net/http"

	"github.com/goccy/go-json"
)

// decodeJSON decodes the request body into dst, mapping an oversized body to 413.
func decodeJSON(r *http.Request, dst interface{}, limitInMegabyte int) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return exceptions.ErrRequestBodyTooLarge(err, limitInMegabyte)
		}
		return exceptions.ErrCannotParseJSON(err)
	}
	if len(body) == 0 {
		return exceptions.ErrCannotParseJSON(errors.New("request body is empty"))
	}

	err = json.Unmarshal(body, dst)
	if err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

// usecaseError converts a bare context deadline into a gateway timeout.
func usecaseError(err error) error {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return exceptions.ErrServerDeadlineExceeded(err)
	}
	return err
}
