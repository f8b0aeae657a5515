package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Storage - хранилище загруженных фотографий
type Storage interface {
	// Save сохраняет объект по ключу path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Delete удаляет объект; отсутствие объекта не ошибка
	Delete(ctx context.Context, path string) error

	// Exists проверяет наличие объекта
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает публичный URL объекта
	GetURL(ctx context.Context, path string) (string, error)
}

// Config - параметры хранилища
type Config struct {
	Type      string // local, s3
	BasePath  string // для local
	BaseURL   string // публичный префикс
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // R2 или другой S3-совместимый сервис
}

// NewStorage создает хранилище по типу из конфигурации
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
