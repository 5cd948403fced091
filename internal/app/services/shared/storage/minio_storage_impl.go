package storage

import (
	"context"
	"io"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

// objectStore is the subset of *minio.Client the storage uses.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioStorage struct {
	MinioClient objectStore
}

func NewMinioStorage(minioClient *minio.Client) contracts.Storage {
	return &minioStorage{
		MinioClient: minioClient,
	}
}

// UploadFile stores the object under objectKey and returns that key, which is
// what gets persisted on the owning record.
func (m *minioStorage) UploadFile(ctx context.Context, bucketName, objectKey string, file io.Reader, size int64, contentType string) (string, error) {
	_, err := m.MinioClient.PutObject(ctx, bucketName, objectKey, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}

	return objectKey, nil
}

func (m *minioStorage) RemoveFile(ctx context.Context, bucketName, objectKey string) error {
	if err := m.MinioClient.RemoveObject(ctx, bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return exceptions.ErrMinioRemoveObject(err, bucketName)
	}
	return nil
}
