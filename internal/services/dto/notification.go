package dto

import "iskort_backend/internal/models"

type NotificationQuery struct {
	SubjectKind models.SubjectKind        `form:"subject_kind" validate:"omitempty,oneof=admin owner user eatery housing"`
	SubjectID   uint                      `form:"subject_id"`
	Status      models.NotificationStatus `form:"status" validate:"omitempty,oneof=sent failed skipped"`
}
