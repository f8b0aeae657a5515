package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationChannel string
type NotificationStatus string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"

	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationSkipped NotificationStatus = "skipped"
)

// NotificationLog - одна попытка доставки по одному каналу
type NotificationLog struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	Channel     NotificationChannel `gorm:"type:varchar(10);not null" json:"channel"`
	Recipient   string              `gorm:"type:varchar(255)" json:"recipient"`
	Subject     string              `gorm:"type:varchar(255)" json:"subject"`
	Event       string              `gorm:"type:varchar(40);index" json:"event"`
	SubjectKind string              `gorm:"type:varchar(20);index:idx_notification_subject" json:"subject_kind"`
	SubjectID   uint                `gorm:"index:idx_notification_subject" json:"subject_id"`
	Status      NotificationStatus  `gorm:"type:varchar(10);not null" json:"status"`
	Error       string              `gorm:"type:text" json:"error,omitempty"`
	Payload     datatypes.JSON      `json:"payload,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime;index" json:"created_at"`
}
