package models

import "time"

// Verification - состояние проверки объявления администратором
type Verification struct {
	Status            ListingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	IsVerified        bool          `gorm:"default:false;index" json:"is_verified"`
	VerifiedByAdminID *uint         `json:"verified_by_admin_id,omitempty"`
	VerifiedTime      *time.Time    `json:"verified_time,omitempty"`
}

type Eatery struct {
	BaseModel
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Name        string `gorm:"type:varchar(160);not null" json:"name"`
	Location    string `gorm:"type:varchar(255);not null" json:"location"`
	OpenTime    string `gorm:"type:varchar(5)" json:"open_time"`
	EndTime     string `gorm:"type:varchar(5)" json:"end_time"`
	Description string `gorm:"type:text" json:"description"`
	Photo       string `json:"photo"`
	Verification

	Owner *Owner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Foods []Food `gorm:"foreignKey:EateryID" json:"foods,omitempty"`
}

type Housing struct {
	BaseModel
	OwnerID       uint    `gorm:"not null;index" json:"owner_id"`
	Name          string  `gorm:"type:varchar(160);not null" json:"name"`
	Address       string  `gorm:"type:varchar(255);not null" json:"address"`
	RentPrice     float64 `gorm:"not null;default:0" json:"rent_price"`
	RoomCount     int     `gorm:"not null;default:0" json:"room_count"`
	ContactNumber string  `gorm:"type:varchar(32)" json:"contact_number"`
	Curfew        string  `gorm:"type:varchar(5)" json:"curfew"`
	Description   string  `gorm:"type:text" json:"description"`
	Photo         string  `json:"photo"`
	Verification

	Owner      *Owner     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Facilities []Facility `gorm:"foreignKey:HousingID" json:"facilities,omitempty"`
}

type Food struct {
	BaseModel
	EateryID       uint    `gorm:"not null;index" json:"eatery_id"`
	Name           string  `gorm:"type:varchar(160);not null" json:"name"`
	Classification string  `gorm:"type:varchar(60)" json:"classification"`
	Price          float64 `gorm:"not null;default:0" json:"price"`
	Photo          string  `json:"photo"`
}

type Facility struct {
	BaseModel
	HousingID   uint   `gorm:"not null;index" json:"housing_id"`
	Name        string `gorm:"type:varchar(160);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Photo       string `json:"photo"`
}
