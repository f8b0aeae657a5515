package apperrors

import (
	"encoding/json"
	"net/http"
	"strings"
)

// AppError - ошибка сервисного слоя. HTTPCode и Err наружу не уходят,
// Err попадает в лог и (в development) в details ответа.
type AppError struct {
	Code     ErrorCode
	Domain   string
	Message  string
	Details  interface{}
	Err      error
	HTTPCode int
}

// New - ошибка без причины
func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return Wrap(nil, code, domain, message, httpCode)
}

// Wrap - ошибка с причиной из нижнего слоя
func Wrap(err error, code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, Err: err, HTTPCode: httpCode}
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Domain)
	b.WriteByte('/')
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type errorBody struct {
	Code    ErrorCode   `json:"code"`
	Domain  string      `json:"domain"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Code: e.Code, Domain: e.Domain, Message: e.Message, Details: e.Details})
}

// HasCode - есть ли в цепочке AppError с таким кодом
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ====================================================================
// Общие ошибки
// ====================================================================

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

// ValidationError - 400 с картой полей в details
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(details)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "request", message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, "auth", message, http.StatusForbidden)
}
