package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

func ValidateImage(fileHeader *multipart.FileHeader, maxSizeInMegabytes int64) error {
	if fileHeader == nil {
		return errors.New("image file is missing")
	}

	if fileHeader.Size > maxSizeInMegabytes*1024*1024 {
		return fmt.Errorf("image exceeds maximum allowed size of %dMB", maxSizeInMegabytes)
	}

	return ValidateImageFormat(fileHeader.Filename)
}

func ValidateImageFormat(fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, format := range allowedImageExtensions {
		if ext == format {
			return nil
		}
	}
	return fmt.Errorf("invalid image format. Allowed formats are: %s", strings.Join(allowedImageExtensions, ", "))
}

func ValidateUrlParam(param string) error {
	if strings.TrimSpace(param) == "" {
		return errors.New("parameter is missing from url path")
	}
	if strings.ContainsAny(param, "/\\") {
		return errors.New("parameter contains path separators")
	}
	return nil
}
