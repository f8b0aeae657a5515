package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"iskort_backend/internal/imageprocessor"
	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services/dto"
	"iskort_backend/internal/storage"
	"iskort_backend/pkg/apperrors"
)

// UploadConfig - ограничения на загружаемые фото
type UploadConfig struct {
	MaxFileSize  int64
	MaxPixels    int64
	AllowedTypes []string
}

type UploadService interface {
	UploadPhoto(ctx context.Context, accountID uint, role models.Role, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type uploadService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    UploadConfig
}

func NewUploadService(store storage.Storage, processor *imageprocessor.Processor, config UploadConfig) UploadService {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 5 * 1024 * 1024
	}
	if config.MaxPixels <= 0 {
		config.MaxPixels = imageprocessor.DefaultMaxPixels
	}
	if len(config.AllowedTypes) == 0 {
		config.AllowedTypes = []string{"image/jpeg", "image/png"}
	}
	return &uploadService{storage: store, processor: processor, config: config}
}

// UploadPhoto проверяет файл, уменьшает изображение и сохраняет в хранилище
func (s *uploadService) UploadPhoto(ctx context.Context, accountID uint, role models.Role, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge(s.config.MaxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	// тип определяем по содержимому, заголовку клиента не доверяем
	head := make([]byte, 512)
	n, _ := src.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !contains(s.config.AllowedTypes, contentType) {
		return nil, apperrors.ErrInvalidFileType(contentType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	processed, err := s.processor.Process(src)
	if errors.Is(err, imageprocessor.ErrTooManyPixels) {
		logger.CtxWarn(ctx, "Image rejected by pixel limit", "error", err.Error(), "filename", file.Filename)
		return nil, apperrors.ErrImageTooLarge(s.config.MaxPixels)
	}
	if err != nil {
		logger.CtxWarn(ctx, "Failed to process image", "error", err.Error(), "filename", file.Filename)
		return nil, apperrors.ErrInvalidFileType(contentType)
	}

	ext := ".jpg"
	if processed.Format == "png" {
		ext = ".png"
	}
	key := path.Join("photos", string(role), time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)

	if err := s.storage.Save(ctx, key, bytes.NewReader(processed.Data), processed.ContentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "upload", "Failed to store file", http.StatusInternalServerError)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("get url: %w", err))
	}

	logger.CtxInfo(ctx, "Photo uploaded", "account_id", accountID, "path", key, "size", len(processed.Data))

	return &dto.UploadResponse{
		Success:     true,
		Path:        key,
		URL:         url,
		ContentType: processed.ContentType,
		Size:        len(processed.Data),
		Width:       processed.Width,
		Height:      processed.Height,
	}, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
