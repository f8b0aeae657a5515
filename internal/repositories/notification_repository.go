package repositories

import (
	"gorm.io/gorm"

	"iskort_backend/internal/models"
)

type NotificationFilter struct {
	SubjectKind models.SubjectKind
	SubjectID   uint
	Status      models.NotificationStatus
	Limit       int
	Offset      int
}

type NotificationRepository interface {
	Create(db *gorm.DB, entry *models.NotificationLog) error
	List(db *gorm.DB, filter NotificationFilter) ([]models.NotificationLog, int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, entry *models.NotificationLog) error {
	return db.Create(entry).Error
}

func (r *NotificationRepositoryImpl) List(db *gorm.DB, filter NotificationFilter) ([]models.NotificationLog, int64, error) {
	q := db.Model(&models.NotificationLog{})
	if filter.SubjectKind != "" {
		q = q.Where("subject_kind = ?", filter.SubjectKind)
	}
	if filter.SubjectID != 0 {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.NotificationLog
	q = q.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
