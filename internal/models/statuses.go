package models

type Role string
type AccountStatus string
type NotifPreference string
type ListingStatus string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleUser  Role = "user"

	AccountStatusPending      AccountStatus = "pending"
	AccountStatusPendingEmail AccountStatus = "pending_email"
	AccountStatusPendingAdmin AccountStatus = "pending_admin"
	AccountStatusVerified     AccountStatus = "verified"

	NotifEmail NotifPreference = "email"
	NotifSMS   NotifPreference = "sms"
	NotifBoth  NotifPreference = "both"

	ListingStatusPending  ListingStatus = "pending"
	ListingStatusVerified ListingStatus = "verified"
)

// Roles - закрытый перечень ролей
var Roles = []Role{RoleAdmin, RoleOwner, RoleUser}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleUser:
		return true
	}
	return false
}

// PendingAccountStatuses - все нетерминальные статусы аккаунта
var PendingAccountStatuses = []AccountStatus{
	AccountStatusPending,
	AccountStatusPendingEmail,
	AccountStatusPendingAdmin,
}

func (s AccountStatus) IsPending() bool {
	for _, p := range PendingAccountStatuses {
		if s == p {
			return true
		}
	}
	return false
}

func (p NotifPreference) Valid() bool {
	switch p {
	case NotifEmail, NotifSMS, NotifBoth:
		return true
	}
	return false
}

// WantsEmail - пустое значение трактуется как email
func (p NotifPreference) WantsEmail() bool {
	return p == NotifEmail || p == NotifBoth || p == ""
}

func (p NotifPreference) WantsSMS() bool {
	return p == NotifSMS || p == NotifBoth
}

// SubjectKind - тип записи, проходящей проверку администратором
type SubjectKind string

const (
	KindAdmin   SubjectKind = "admin"
	KindOwner   SubjectKind = "owner"
	KindUser    SubjectKind = "user"
	KindEatery  SubjectKind = "eatery"
	KindHousing SubjectKind = "housing"
)

// AccountRole возвращает роль для аккаунтных типов
func (k SubjectKind) AccountRole() (Role, bool) {
	switch k {
	case KindAdmin:
		return RoleAdmin, true
	case KindOwner:
		return RoleOwner, true
	case KindUser:
		return RoleUser, true
	}
	return "", false
}
