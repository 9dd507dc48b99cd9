package storage

import (
	"bytes"
	"context"
	"io"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"
	"mime"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

type minioStorage struct {
	MinioClient *minio.Client
}

func NewMinioStorage(minioClient *minio.Client) contracts.Storage {
	return &minioStorage{
		MinioClient: minioClient,
	}
}

// UploadFile stores an uploaded file under a timestamped name owned by objectPrefix.
func (m *minioStorage) UploadFile(ctx context.Context, file io.Reader, fileHeader *multipart.FileHeader, bucketName, objectPrefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectName := utils.GenerateFileName("image", objectPrefix, ext)

	contentType := fileHeader.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	_, err := m.MinioClient.PutObject(ctx, bucketName, objectName, file, fileHeader.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}
	return objectName, nil
}

func (m *minioStorage) UploadBytes(ctx context.Context, content []byte, bucketName, objectName, contentType string) (string, error) {
	_, err := m.MinioClient.PutObject(
		ctx,
		bucketName,
		objectName,
		bytes.NewReader(content),
		int64(len(content)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}
	return objectName, nil
}

func (m *minioStorage) GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	object, err := m.MinioClient.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, bucketName)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, bucketName)
	}
	return content, nil
}

func (m *minioStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", "attachment; filename=\""+filepath.Base(objectName)+"\"")

	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiryTime, params)
	if err != nil {
		return "", exceptions.ErrMinioPresignedURL(err, bucketName)
	}
	return presignedURL.String(), nil
}
