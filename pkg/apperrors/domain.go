package apperrors

import (
	"fmt"
	"net/http"
)

// =========================================================================
// Фабрики для оборачивания ошибок репозиториев
// =========================================================================

// ErrNotFound - запись не найдена (404). domain - сущность, напр. "eatery".
func ErrNotFound(err error, domain string) *AppError {
	return Wrap(err, CodeNotFound, domain, fmt.Sprintf("%s not found", domain), http.StatusNotFound)
}

// ErrDatabase - ошибка хранилища (500). Детали драйвера остаются в Err и в ответ не попадают.
func ErrDatabase(err error, domain string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, "Database error", http.StatusInternalServerError)
}

// =========================================================================
// Верификация
// =========================================================================

// ErrAlreadyVerified - запись уже в терминальном состоянии verified.
func ErrAlreadyVerified(domain string) *AppError {
	return New(CodeAlreadyVerified, domain, fmt.Sprintf("%s is already verified", domain), http.StatusConflict)
}

// ErrListingNotVerified - редактирование непроверенного объявления запрещено.
func ErrListingNotVerified(domain string) *AppError {
	return New(CodeNotVerified, domain, fmt.Sprintf("%s is not verified yet and cannot be edited", domain), http.StatusForbidden)
}

// =========================================================================
// Аутентификация
// =========================================================================

// ErrDuplicateEmail - email уже используется в рамках роли.
func ErrDuplicateEmail(role string) *AppError {
	return New(CodeAlreadyExists, "auth", fmt.Sprintf("Email is already registered as %s", role), http.StatusConflict)
}

// ErrWrongRole - email зарегистрирован под другой ролью.
func ErrWrongRole(role string) *AppError {
	return New(CodeForbidden, "auth", fmt.Sprintf("You are not registered as a %s.", role), http.StatusForbidden)
}

// ErrAccountNotVerified - аккаунт ещё не подтверждён администратором.
func ErrAccountNotVerified() *AppError {
	return New(CodeNotVerified, "auth", "Account is pending verification", http.StatusForbidden)
}

// ErrInvalidCredentials - неверный email или пароль.
func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}

// ErrInvalidToken - неверный или просроченный токен.
func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)
}

// ErrInsufficientPermissions - роль не допускает операцию.
func ErrInsufficientPermissions() *AppError {
	return New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)
}

// ErrNotOwner - запись принадлежит другому аккаунту.
func ErrNotOwner(domain string) *AppError {
	return New(CodeForbidden, domain, fmt.Sprintf("You do not own this %s", domain), http.StatusForbidden)
}

// =========================================================================
// Отзывы
// =========================================================================

// ErrInvalidRating - рейтинг вне диапазона [1,5].
func ErrInvalidRating(rating int) *AppError {
	return New(CodeValidationFailed, "review", "Rating must be between 1 and 5", http.StatusBadRequest).
		WithDetails(map[string]int{"rating": rating})
}

// =========================================================================
// Загрузки
// =========================================================================

// ErrFileTooLarge - файл превышает допустимый размер.
func ErrFileTooLarge(limitBytes int64) *AppError {
	return New(CodeLimitExceeded, "upload", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge).
		WithDetails(map[string]int64{"max_bytes": limitBytes})
}

// ErrImageTooLarge - размеры изображения превышают лимит пикселей.
func ErrImageTooLarge(maxPixels int64) *AppError {
	return New(CodeLimitExceeded, "upload", "Image dimensions exceed the allowed limit", http.StatusBadRequest).
		WithDetails(map[string]int64{"max_pixels": maxPixels})
}

// ErrInvalidFileType - MIME-тип файла не разрешен.
func ErrInvalidFileType(contentType string) *AppError {
	return New(CodeValidationFailed, "upload", "The provided file type is not allowed", http.StatusUnsupportedMediaType).
		WithDetails(map[string]string{"content_type": contentType})
}
