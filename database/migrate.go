package database

import (
	"fmt"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
)

// Models - все таблицы приложения в порядке создания
func Models() []interface{} {
	return []interface{}{
		&models.Registration{},
		&models.Admin{},
		&models.Owner{},
		&models.User{},
		&models.Eatery{},
		&models.Housing{},
		&models.Food{},
		&models.Facility{},
		&models.EateryReview{},
		&models.HousingReview{},
		&models.NotificationLog{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
