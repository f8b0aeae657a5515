package dto

import (
	"time"

	"iskort_backend/internal/models"
)

type VerificationOutcome string

const (
	OutcomeVerified VerificationOutcome = "verified"
	OutcomeRejected VerificationOutcome = "rejected"
)

// VerificationResult - итог verify/reject
type VerificationResult struct {
	Kind    models.SubjectKind  `json:"kind"`
	ID      uint                `json:"id"`
	Outcome VerificationOutcome `json:"outcome"`
	// AccountID - строка ролевой таблицы, созданная при подтверждении аккаунта
	AccountID  *uint       `json:"account_id,omitempty"`
	VerifiedAt *time.Time  `json:"verified_at,omitempty"`
	Record     interface{} `json:"record,omitempty"`
}
