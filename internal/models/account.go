package models

import "time"

// AccountProfile - общие поля аккаунта для всех ролевых таблиц
type AccountProfile struct {
	Name            string          `gorm:"type:varchar(120);not null" json:"name"`
	Email           string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string          `gorm:"not null" json:"-"`
	PhoneNum        string          `gorm:"type:varchar(32)" json:"phone_num"`
	NotifPreference NotifPreference `gorm:"type:varchar(10);default:'email'" json:"notif_preference"`
	IsVerified      bool            `gorm:"default:false" json:"is_verified"`
	Status          AccountStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
}

// Registration - промежуточная таблица: сюда попадает каждая регистрация до проверки админом.
// После верификации хеш пароля стирается, AccountID указывает на строку ролевой таблицы.
type Registration struct {
	BaseModel
	Name            string          `gorm:"type:varchar(120);not null" json:"name"`
	Email           string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_registration_role_email" json:"email"`
	Role            Role            `gorm:"type:varchar(10);not null;uniqueIndex:idx_registration_role_email" json:"role"`
	PasswordHash    string          `json:"-"`
	PhoneNum        string          `gorm:"type:varchar(32)" json:"phone_num"`
	NotifPreference NotifPreference `gorm:"type:varchar(10);default:'email'" json:"notif_preference"`
	IsVerified      bool            `gorm:"default:false" json:"is_verified"`
	Status          AccountStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AccountID       *uint           `json:"account_id,omitempty"`
	VerifiedAt      *time.Time      `json:"verified_at,omitempty"`
}

type Admin struct {
	BaseModel
	AccountProfile
}

type Owner struct {
	BaseModel
	AccountProfile

	Eateries []Eatery  `gorm:"foreignKey:OwnerID" json:"eateries,omitempty"`
	Housings []Housing `gorm:"foreignKey:OwnerID" json:"housings,omitempty"`
}

type User struct {
	BaseModel
	AccountProfile
}

// Account - строка любой ролевой таблицы в общем виде
type Account struct {
	ID        uint      `json:"id"`
	Role      Role      `gorm:"-" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	AccountProfile
}

// Profile копирует поля регистрации в профиль подтверждённого аккаунта
func (r *Registration) Profile() AccountProfile {
	return AccountProfile{
		Name:            r.Name,
		Email:           r.Email,
		PasswordHash:    r.PasswordHash,
		PhoneNum:        r.PhoneNum,
		NotifPreference: r.NotifPreference,
		IsVerified:      true,
		Status:          AccountStatusVerified,
	}
}
