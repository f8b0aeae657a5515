package helpers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"iskort_backend/database"
	"iskort_backend/internal/auth"
	"iskort_backend/internal/config"
	"iskort_backend/internal/models"
	"iskort_backend/internal/notify"
	"iskort_backend/internal/repositories"
)

const DefaultPassword = "password123"

// NewTestDB открывает отдельную in-memory sqlite базу на тест и мигрирует схему
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := database.Open(cfg)
	require.NoError(t, err, "Не удалось открыть тестовую БД")
	require.NoError(t, database.AutoMigrate(db), "Не удалось выполнить миграцию тестовой БД")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateAccount создаёт уже подтверждённый аккаунт в ролевой таблице, пароль DefaultPassword
func CreateAccount(t *testing.T, db *gorm.DB, role models.Role, email string) uint {
	t.Helper()

	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	id, err := repositories.NewAccountRepository().CreateAccount(db, role, models.AccountProfile{
		Name:            "Test " + string(role),
		Email:           email,
		PasswordHash:    hash,
		PhoneNum:        "+77010000000",
		NotifPreference: models.NotifEmail,
		IsVerified:      true,
		Status:          models.AccountStatusVerified,
	})
	require.NoError(t, err, "Не удалось создать аккаунт %s", email)
	return id
}

// CreateEatery создаёт заведение владельца; verified задаёт состояние проверки
func CreateEatery(t *testing.T, db *gorm.DB, ownerID uint, name string, verified bool) *models.Eatery {
	t.Helper()

	eatery := &models.Eatery{
		OwnerID:  ownerID,
		Name:     name,
		Location: "Almaty, Abay 10",
		OpenTime: "09:00",
		EndTime:  "22:00",
	}
	if verified {
		eatery.Verification = models.Verification{Status: models.ListingStatusVerified, IsVerified: true}
	} else {
		eatery.Verification = models.Verification{Status: models.ListingStatusPending}
	}
	require.NoError(t, db.Create(eatery).Error)
	return eatery
}

// CreateHousing - то же для жилья
func CreateHousing(t *testing.T, db *gorm.DB, ownerID uint, name string, verified bool) *models.Housing {
	t.Helper()

	housing := &models.Housing{
		OwnerID:   ownerID,
		Name:      name,
		Address:   "Astana, Mangilik El 55",
		RentPrice: 120000,
		RoomCount: 2,
	}
	if verified {
		housing.Verification = models.Verification{Status: models.ListingStatusVerified, IsVerified: true}
	} else {
		housing.Verification = models.Verification{Status: models.ListingStatusPending}
	}
	require.NoError(t, db.Create(housing).Error)
	return housing
}

// RecordingDispatcher запоминает уведомления вместо доставки
type RecordingDispatcher struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (d *RecordingDispatcher) Dispatch(_ context.Context, msg notify.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
}

func (d *RecordingDispatcher) Messages() []notify.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Message(nil), d.messages...)
}

// FakeSender - канал email и SMS, который запоминает отправки и может падать
type FakeSender struct {
	mu     sync.Mutex
	Err    error
	Emails []string
	SMS    []string
}

func (s *FakeSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Emails = append(s.Emails, to+"|"+subject)
	return nil
}

func (s *FakeSender) SendSMS(_ context.Context, to, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.SMS = append(s.SMS, to+"|"+message)
	return nil
}

func (s *FakeSender) Sent() (emails, sms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Emails), len(s.SMS)
}
