package services

import (
	"context"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

// NotificationService - журнал доставки уведомлений для админки
type NotificationService interface {
	List(ctx context.Context, db *gorm.DB, query dto.NotificationQuery, page dto.Pagination) ([]models.NotificationLog, int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, db *gorm.DB, query dto.NotificationQuery, page dto.Pagination) ([]models.NotificationLog, int64, error) {
	logs, total, err := s.notificationRepo.List(db.WithContext(ctx), repositories.NotificationFilter{
		SubjectKind: query.SubjectKind,
		SubjectID:   query.SubjectID,
		Status:      query.Status,
		Limit:       page.Limit,
		Offset:      page.Offset(),
	})
	if err != nil {
		return nil, 0, apperrors.ErrDatabase(err, "notification")
	}
	return logs, total, nil
}
