package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/metrics"
	"github.com/hashfx/techblog/storage"
)

type UploadService struct {
	store    storage.Store
	maxBytes int64
}

func NewUploadService(store storage.Store, maxBytes int64) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes}
}

func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Save stores an uploaded file under a sanitized unique name and returns its reference.
func (s *UploadService) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	backend := s.store.Backend()
	if fh == nil || fh.Size == 0 {
		metrics.Uploads.WithLabelValues(backend, "empty").Inc()
		return "", storage.ErrEmptyFile
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		metrics.Uploads.WithLabelValues(backend, "too_large").Inc()
		return "", fmt.Errorf("%w: %d > %d bytes", storage.ErrTooLarge, fh.Size, s.maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		metrics.Uploads.WithLabelValues(backend, "failed").Inc()
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	name := storage.ObjectName(fh.Filename)
	ref, err := s.store.Put(ctx, name, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		metrics.Uploads.WithLabelValues(backend, "failed").Inc()
		return "", err
	}
	metrics.Uploads.WithLabelValues(backend, "stored").Inc()
	logger.InfoWithFields("file uploaded", logger.Fields{"original": fh.Filename, "ref": ref, "backend": backend})
	return ref, nil
}
