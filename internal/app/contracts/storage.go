package contracts

import (
	"context"
	"io"
	"mime/multipart"
	"time"
)

type Storage interface {
	UploadFile(ctx context.Context, file io.Reader, fileHeader *multipart.FileHeader, bucketName, objectPrefix string) (string, error)
	UploadBytes(ctx context.Context, content []byte, bucketName, objectName, contentType string) (string, error)
	GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
}
