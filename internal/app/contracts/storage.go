package contracts

import (
	"context"
	"io"
)

type Storage interface {
	UploadFile(ctx context.Context, bucketName, objectKey string, file io.Reader, size int64, contentType string) (string, error)
	RemoveFile(ctx context.Context, bucketName, objectKey string) error
}

type Exporter interface {
	// BuildWorkbook renders already-masked records; columns pick the dotted
	// record paths and their header labels, in order.
	BuildWorkbook(sheetName string, columns []ExportColumn, records []map[string]interface{}) ([]byte, error)
}

type ExportColumn struct {
	Header string
	Path   string
}
