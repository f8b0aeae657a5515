package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
)

var (
	ErrEateryNotFound  = errors.New("eatery not found")
	ErrHousingNotFound = errors.New("housing not found")
)

// ListingFilter - фильтры списка объявлений
type ListingFilter struct {
	OwnerID  *uint
	Verified *bool
	Search   string
	Limit    int
	Offset   int
}

func (f ListingFilter) apply(db *gorm.DB) *gorm.DB {
	if f.OwnerID != nil {
		db = db.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Verified != nil {
		db = db.Where("is_verified = ?", *f.Verified)
	}
	if f.Search != "" {
		db = db.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.Search))+"%")
	}
	return db
}

// % и _ из поиска совпадают буквально, '!' - символ ESCAPE
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func verifiedUpdates(adminID uint, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"is_verified":          true,
		"status":               models.ListingStatusVerified,
		"verified_by_admin_id": adminID,
		"verified_time":        at,
		"updated_at":           at,
	}
}

// ============================================================================
// Eatery
// ============================================================================

type EateryRepository interface {
	Create(db *gorm.DB, eatery *models.Eatery) error
	FindByID(db *gorm.DB, id uint) (*models.Eatery, error)
	List(db *gorm.DB, filter ListingFilter) ([]models.Eatery, int64, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
	MarkVerified(db *gorm.DB, id, adminID uint, at time.Time) (bool, error)
	Delete(db *gorm.DB, id uint) (bool, error)
	DeleteUnverified(db *gorm.DB, id uint) (bool, error)
}

type EateryRepositoryImpl struct{}

func NewEateryRepository() EateryRepository {
	return &EateryRepositoryImpl{}
}

func (r *EateryRepositoryImpl) Create(db *gorm.DB, eatery *models.Eatery) error {
	return db.Omit("Owner", "Foods").Create(eatery).Error
}

// FindByID загружает заведение вместе с владельцем (нужен для уведомлений)
func (r *EateryRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Eatery, error) {
	var eatery models.Eatery
	err := db.Preload("Owner").Preload("Foods").Take(&eatery, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEateryNotFound
		}
		return nil, err
	}
	return &eatery, nil
}

func (r *EateryRepositoryImpl) List(db *gorm.DB, filter ListingFilter) ([]models.Eatery, int64, error) {
	var total int64
	if err := filter.apply(db.Model(&models.Eatery{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var eateries []models.Eatery
	q := filter.apply(db.Preload("Owner")).Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&eateries).Error; err != nil {
		return nil, 0, err
	}
	return eateries, total, nil
}

// Update применяет уже отфильтрованный набор колонок; существование проверяет сервис
func (r *EateryRepositoryImpl) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.Eatery{}).Where("id = ?", id).Updates(fields).Error
}

func (r *EateryRepositoryImpl) MarkVerified(db *gorm.DB, id, adminID uint, at time.Time) (bool, error) {
	result := db.Model(&models.Eatery{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(verifiedUpdates(adminID, at))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete удаляет заведение вместе с блюдами и отзывами. Вызывать внутри транзакции.
func (r *EateryRepositoryImpl) Delete(db *gorm.DB, id uint) (bool, error) {
	return r.delete(db, db.Where("id = ?", id))
}

// DeleteUnverified - удаление при отклонении: только если заведение ещё не подтверждено
func (r *EateryRepositoryImpl) DeleteUnverified(db *gorm.DB, id uint) (bool, error) {
	return r.delete(db, db.Where("id = ? AND is_verified = ?", id, false))
}

func (r *EateryRepositoryImpl) delete(db, scoped *gorm.DB) (bool, error) {
	var ids []uint
	if err := scoped.Model(&models.Eatery{}).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}
	if err := db.Where("eatery_id IN ?", ids).Delete(&models.Food{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("eatery_id IN ?", ids).Delete(&models.EateryReview{}).Error; err != nil {
		return false, err
	}
	result := db.Where("id IN ?", ids).Delete(&models.Eatery{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ============================================================================
// Housing
// ============================================================================

type HousingRepository interface {
	Create(db *gorm.DB, housing *models.Housing) error
	FindByID(db *gorm.DB, id uint) (*models.Housing, error)
	List(db *gorm.DB, filter ListingFilter) ([]models.Housing, int64, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
	MarkVerified(db *gorm.DB, id, adminID uint, at time.Time) (bool, error)
	Delete(db *gorm.DB, id uint) (bool, error)
	DeleteUnverified(db *gorm.DB, id uint) (bool, error)
}

type HousingRepositoryImpl struct{}

func NewHousingRepository() HousingRepository {
	return &HousingRepositoryImpl{}
}

func (r *HousingRepositoryImpl) Create(db *gorm.DB, housing *models.Housing) error {
	return db.Omit("Owner", "Facilities").Create(housing).Error
}

func (r *HousingRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Housing, error) {
	var housing models.Housing
	err := db.Preload("Owner").Preload("Facilities").Take(&housing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHousingNotFound
		}
		return nil, err
	}
	return &housing, nil
}

func (r *HousingRepositoryImpl) List(db *gorm.DB, filter ListingFilter) ([]models.Housing, int64, error) {
	var total int64
	if err := filter.apply(db.Model(&models.Housing{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var housings []models.Housing
	q := filter.apply(db.Preload("Owner")).Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&housings).Error; err != nil {
		return nil, 0, err
	}
	return housings, total, nil
}

func (r *HousingRepositoryImpl) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.Model(&models.Housing{}).Where("id = ?", id).Updates(fields).Error
}

func (r *HousingRepositoryImpl) MarkVerified(db *gorm.DB, id, adminID uint, at time.Time) (bool, error) {
	result := db.Model(&models.Housing{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(verifiedUpdates(adminID, at))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *HousingRepositoryImpl) Delete(db *gorm.DB, id uint) (bool, error) {
	return r.delete(db, db.Where("id = ?", id))
}

func (r *HousingRepositoryImpl) DeleteUnverified(db *gorm.DB, id uint) (bool, error) {
	return r.delete(db, db.Where("id = ? AND is_verified = ?", id, false))
}

func (r *HousingRepositoryImpl) delete(db, scoped *gorm.DB) (bool, error) {
	var ids []uint
	if err := scoped.Model(&models.Housing{}).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}
	if err := db.Where("housing_id IN ?", ids).Delete(&models.Facility{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("housing_id IN ?", ids).Delete(&models.HousingReview{}).Error; err != nil {
		return false, err
	}
	result := db.Where("id IN ?", ids).Delete(&models.Housing{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
