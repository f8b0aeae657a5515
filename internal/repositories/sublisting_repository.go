package repositories

import (
	"errors"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
)

var (
	ErrFoodNotFound     = errors.New("food not found")
	ErrFacilityNotFound = errors.New("facility not found")
)

type FoodRepository interface {
	Create(db *gorm.DB, food *models.Food) error
	FindByID(db *gorm.DB, id uint) (*models.Food, error)
	FindByEatery(db *gorm.DB, eateryID uint) ([]models.Food, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type FoodRepositoryImpl struct{}

func NewFoodRepository() FoodRepository {
	return &FoodRepositoryImpl{}
}

func (r *FoodRepositoryImpl) Create(db *gorm.DB, food *models.Food) error {
	return db.Create(food).Error
}

func (r *FoodRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Food, error) {
	var food models.Food
	if err := db.Take(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &food, nil
}

func (r *FoodRepositoryImpl) FindByEatery(db *gorm.DB, eateryID uint) ([]models.Food, error) {
	var foods []models.Food
	err := db.Where("eatery_id = ?", eateryID).Order("name ASC").Find(&foods).Error
	return foods, err
}

func (r *FoodRepositoryImpl) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.Food{}).Where("id = ?", id).Updates(fields).Error
}

func (r *FoodRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Food{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

type FacilityRepository interface {
	Create(db *gorm.DB, facility *models.Facility) error
	FindByID(db *gorm.DB, id uint) (*models.Facility, error)
	FindByHousing(db *gorm.DB, housingID uint) ([]models.Facility, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type FacilityRepositoryImpl struct{}

func NewFacilityRepository() FacilityRepository {
	return &FacilityRepositoryImpl{}
}

func (r *FacilityRepositoryImpl) Create(db *gorm.DB, facility *models.Facility) error {
	return db.Create(facility).Error
}

func (r *FacilityRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Facility, error) {
	var facility models.Facility
	if err := db.Take(&facility, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &facility, nil
}

func (r *FacilityRepositoryImpl) FindByHousing(db *gorm.DB, housingID uint) ([]models.Facility, error) {
	var facilities []models.Facility
	err := db.Where("housing_id = ?", housingID).Order("name ASC").Find(&facilities).Error
	return facilities, err
}

func (r *FacilityRepositoryImpl) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.Facility{}).Where("id = ?", id).Updates(fields).Error
}

func (r *FacilityRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Facility{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFacilityNotFound
	}
	return nil
}
