package repositories

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrUnknownRole          = errors.New("unknown account role")
)

const registrationsTable = "registrations"

// accountTables - фиксированное соответствие роли и таблицы.
// Имя таблицы никогда не берётся из данных запроса.
var accountTables = map[models.Role]string{
	models.RoleAdmin: "admins",
	models.RoleOwner: "owners",
	models.RoleUser:  "users",
}

func tableFor(role models.Role) (string, error) {
	table, ok := accountTables[role]
	if !ok {
		return "", ErrUnknownRole
	}
	return table, nil
}

type AccountRepository interface {
	// Staging (registrations)
	CreateRegistration(db *gorm.DB, reg *models.Registration) error
	FindRegistrationByID(db *gorm.DB, id uint, role models.Role) (*models.Registration, error)
	FindRegistrationByEmail(db *gorm.DB, email string, role models.Role) (*models.Registration, error)
	MarkRegistrationVerified(db *gorm.DB, id uint, role models.Role, at time.Time) (bool, error)
	LinkRegistration(db *gorm.DB, id, accountID uint) error
	DeletePendingRegistration(db *gorm.DB, id uint, role models.Role) (bool, error)

	// Role tables
	CreateAccount(db *gorm.DB, role models.Role, profile models.AccountProfile) (uint, error)
	FindAccountByID(db *gorm.DB, role models.Role, id uint) (*models.Account, error)
	FindAccountByEmail(db *gorm.DB, role models.Role, email string) (*models.Account, error)
	EmailTaken(db *gorm.DB, role models.Role, email string) (bool, error)
	RolesForEmail(db *gorm.DB, email string) ([]models.Role, error)
	CountAccounts(db *gorm.DB, role models.Role) (int64, error)

	// Admin dashboard
	ListAccounts(db *gorm.DB, filter AccountFilter) ([]AccountRecord, error)

	// Owners
	ListOwners(db *gorm.DB, limit, offset int) ([]models.Owner, int64, error)
	FindOwnerWithListings(db *gorm.DB, id uint) (*models.Owner, error)
}

type AccountFilter struct {
	Role   models.Role
	Status models.AccountStatus
}

// AccountRecord - строка объединённого списка аккаунтов
type AccountRecord struct {
	ID              uint
	Name            string
	Email           string
	PhoneNum        string
	NotifPreference models.NotifPreference
	Role            models.Role
	Status          models.AccountStatus
	IsVerified      bool
	CreatedAt       time.Time
	SourceTable     string
}

type AccountRepositoryImpl struct{}

func NewAccountRepository() AccountRepository {
	return &AccountRepositoryImpl{}
}

// --- Staging ---

func (r *AccountRepositoryImpl) CreateRegistration(db *gorm.DB, reg *models.Registration) error {
	err := db.Create(reg).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *AccountRepositoryImpl) FindRegistrationByID(db *gorm.DB, id uint, role models.Role) (*models.Registration, error) {
	var reg models.Registration
	err := db.Where("id = ? AND role = ?", id, role).Take(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *AccountRepositoryImpl) FindRegistrationByEmail(db *gorm.DB, email string, role models.Role) (*models.Registration, error) {
	var reg models.Registration
	err := db.Where("email = ? AND role = ?", email, role).Take(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// MarkRegistrationVerified - условный переход pending -> verified.
// false означает, что строка уже не в нетерминальном статусе.
func (r *AccountRepositoryImpl) MarkRegistrationVerified(db *gorm.DB, id uint, role models.Role, at time.Time) (bool, error) {
	result := db.Model(&models.Registration{}).
		Where("id = ? AND role = ? AND status IN ?", id, role, models.PendingAccountStatuses).
		Updates(map[string]interface{}{
			"status":      models.AccountStatusVerified,
			"is_verified": true,
			"verified_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// LinkRegistration стирает хеш пароля в staging и связывает строку с ролевой таблицей
func (r *AccountRepositoryImpl) LinkRegistration(db *gorm.DB, id, accountID uint) error {
	result := db.Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": "",
			"account_id":    accountID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *AccountRepositoryImpl) DeletePendingRegistration(db *gorm.DB, id uint, role models.Role) (bool, error) {
	result := db.Where("id = ? AND role = ? AND status IN ?", id, role, models.PendingAccountStatuses).
		Delete(&models.Registration{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// --- Role tables ---

func (r *AccountRepositoryImpl) CreateAccount(db *gorm.DB, role models.Role, profile models.AccountProfile) (uint, error) {
	var (
		row interface{}
		id  func() uint
	)
	switch role {
	case models.RoleAdmin:
		a := &models.Admin{AccountProfile: profile}
		row, id = a, func() uint { return a.ID }
	case models.RoleOwner:
		o := &models.Owner{AccountProfile: profile}
		row, id = o, func() uint { return o.ID }
	case models.RoleUser:
		u := &models.User{AccountProfile: profile}
		row, id = u, func() uint { return u.ID }
	default:
		return 0, ErrUnknownRole
	}

	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return id(), nil
}

func (r *AccountRepositoryImpl) findAccount(db *gorm.DB, role models.Role, query string, args ...interface{}) (*models.Account, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	var acc models.Account
	err = db.Table(table).Where(query, args...).Take(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	acc.Role = role
	return &acc, nil
}

func (r *AccountRepositoryImpl) FindAccountByID(db *gorm.DB, role models.Role, id uint) (*models.Account, error) {
	return r.findAccount(db, role, "id = ?", id)
}

func (r *AccountRepositoryImpl) FindAccountByEmail(db *gorm.DB, role models.Role, email string) (*models.Account, error) {
	return r.findAccount(db, role, "email = ?", email)
}

// EmailTaken - email занят в рамках роли: в ролевой таблице или в staging
func (r *AccountRepositoryImpl) EmailTaken(db *gorm.DB, role models.Role, email string) (bool, error) {
	table, err := tableFor(role)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Table(table).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&models.Registration{}).Where("email = ? AND role = ?", email, role).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RolesForEmail - роли, под которыми email известен системе
func (r *AccountRepositoryImpl) RolesForEmail(db *gorm.DB, email string) ([]models.Role, error) {
	var roles []models.Role
	for _, role := range models.Roles {
		taken, err := r.EmailTaken(db, role, email)
		if err != nil {
			return nil, err
		}
		if taken {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r *AccountRepositoryImpl) CountAccounts(db *gorm.DB, role models.Role) (int64, error) {
	table, err := tableFor(role)
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Table(table).Count(&count).Error
	return count, err
}

// ListAccounts объединяет ролевые таблицы и ожидающие проверки регистрации.
// Подтверждённые строки staging не выводятся: их представляет строка ролевой таблицы.
func (r *AccountRepositoryImpl) ListAccounts(db *gorm.DB, filter AccountFilter) ([]AccountRecord, error) {
	roles := models.Roles
	if filter.Role != "" {
		roles = []models.Role{filter.Role}
	}

	var records []AccountRecord

	if filter.Status == "" || filter.Status.IsPending() {
		var regs []models.Registration
		q := db.Where("role IN ?", roles)
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		} else {
			q = q.Where("status IN ?", models.PendingAccountStatuses)
		}
		if err := q.Find(&regs).Error; err != nil {
			return nil, fmt.Errorf("list registrations: %w", err)
		}
		for _, reg := range regs {
			records = append(records, AccountRecord{
				ID:              reg.ID,
				Name:            reg.Name,
				Email:           reg.Email,
				PhoneNum:        reg.PhoneNum,
				NotifPreference: reg.NotifPreference,
				Role:            reg.Role,
				Status:          reg.Status,
				IsVerified:      reg.IsVerified,
				CreatedAt:       reg.CreatedAt,
				SourceTable:     registrationsTable,
			})
		}
	}

	for _, role := range roles {
		table, err := tableFor(role)
		if err != nil {
			return nil, err
		}

		var accounts []models.Account
		q := db.Table(table)
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if err := q.Find(&accounts).Error; err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		for _, acc := range accounts {
			records = append(records, AccountRecord{
				ID:              acc.ID,
				Name:            acc.Name,
				Email:           acc.Email,
				PhoneNum:        acc.PhoneNum,
				NotifPreference: acc.NotifPreference,
				Role:            role,
				Status:          acc.Status,
				IsVerified:      acc.IsVerified,
				CreatedAt:       acc.CreatedAt,
				SourceTable:     table,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// --- Owners ---

func (r *AccountRepositoryImpl) ListOwners(db *gorm.DB, limit, offset int) ([]models.Owner, int64, error) {
	var total int64
	if err := db.Model(&models.Owner{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var owners []models.Owner
	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&owners).Error
	return owners, total, err
}

func (r *AccountRepositoryImpl) FindOwnerWithListings(db *gorm.DB, id uint) (*models.Owner, error) {
	var owner models.Owner
	err := db.Preload("Eateries", "is_verified = ?", true).
		Preload("Housings", "is_verified = ?", true).
		Take(&owner, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &owner, nil
}
