package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/loomhaven/api/internal/platform/storage"
)

// ErrInvalidUpload flags a rejected upload request.
var ErrInvalidUpload = errors.New("upload: invalid input")

// Uploader is the storage surface the service needs.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
}

// UploadResult reports where the stored object is publicly reachable.
type UploadResult struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
}

// UploadService names and stores uploaded files through the object-storage
// client.
type UploadService struct {
	storage Uploader
}

type UploadServiceDeps struct {
	Storage Uploader
}

func NewUploadService(deps UploadServiceDeps) *UploadService {
	return &UploadService{storage: deps.Storage}
}

// Upload derives a collision-safe object name from the original filename and
// hands the bytes to storage, returning the public URL.
func (s *UploadService) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*UploadResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidUpload)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: file body is required", ErrInvalidUpload)
	}
	objectName := storage.BuildObjectName(filename)
	url, err := s.storage.Upload(ctx, objectName, contentType, body)
	if err != nil {
		return nil, err
	}
	return &UploadResult{ObjectName: objectName, URL: url}, nil
}
