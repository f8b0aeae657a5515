package auth

import "iskort_backend/internal/models"

const (
	PermAccountsRead      = "accounts:read"
	PermAccountsVerify    = "accounts:verify"
	PermListingsVerify    = "listings:verify"
	PermListingsWrite     = "listings:write:self"
	PermReviewsWrite      = "reviews:write:self"
	PermUploadsWrite      = "uploads:write"
	PermNotificationsRead = "notifications:read"
)

// Permissions - разрешения по ролям
var Permissions = map[models.Role][]string{
	models.RoleAdmin: {
		PermAccountsRead,
		PermAccountsVerify,
		PermListingsVerify,
		PermNotificationsRead,
		PermUploadsWrite,
	},
	models.RoleOwner: {
		PermListingsWrite,
		PermUploadsWrite,
	},
	models.RoleUser: {
		PermReviewsWrite,
		PermUploadsWrite,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.Role, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
