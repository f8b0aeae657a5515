package services_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"iskort_backend/internal/auth"
	"iskort_backend/internal/models"
	"iskort_backend/internal/notify"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
	"iskort_backend/test/helpers"
)

type verificationFixture struct {
	db         *gorm.DB
	auth       services.AuthService
	verifier   services.VerificationService
	dispatcher *helpers.RecordingDispatcher
	adminID    uint
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	db := helpers.NewTestDB(t)
	accountRepo := repositories.NewAccountRepository()
	dispatcher := &helpers.RecordingDispatcher{}

	return &verificationFixture{
		db:   db,
		auth: services.NewAuthService(accountRepo, auth.NewTokenManager("secret", 0)),
		verifier: services.NewVerificationService(
			accountRepo,
			repositories.NewEateryRepository(),
			repositories.NewHousingRepository(),
			dispatcher,
		),
		dispatcher: dispatcher,
		adminID:    helpers.CreateAccount(t, db, models.RoleAdmin, "root@iskort.kz"),
	}
}

func (f *verificationFixture) register(t *testing.T, role models.Role, email string) uint {
	resp, err := f.auth.Register(context.Background(), f.db, role, &dto.RegisterRequest{
		Name:            "Aruzhan",
		Email:           email,
		Password:        "secret12",
		PhoneNum:        "+77015554433",
		NotifPreference: models.NotifBoth,
	})
	require.NoError(t, err)
	return resp.User.ID
}

func assertAppError(t *testing.T, err error, status int, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.HTTPCode)
	assert.Equal(t, code, appErr.Code)
}

func TestVerify_OwnerPromotedToRoleTable(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	regID := f.register(t, models.RoleOwner, "owner@iskort.kz")

	result, err := f.verifier.Verify(ctx, f.db, models.KindOwner, regID, f.adminID)
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeVerified, result.Outcome)
	require.NotNil(t, result.AccountID)
	require.NotNil(t, result.VerifiedAt)

	var owner models.Owner
	require.NoError(t, f.db.Take(&owner, *result.AccountID).Error)
	assert.Equal(t, "owner@iskort.kz", owner.Email)
	assert.True(t, owner.IsVerified)
	assert.Equal(t, models.AccountStatusVerified, owner.Status)
	assert.NotEmpty(t, owner.PasswordHash)

	var reg models.Registration
	require.NoError(t, f.db.Take(&reg, regID).Error)
	assert.Equal(t, models.AccountStatusVerified, reg.Status)
	assert.Empty(t, reg.PasswordHash, "staging row must not keep the password hash")
	require.NotNil(t, reg.AccountID)
	assert.Equal(t, *result.AccountID, *reg.AccountID)

	messages := f.dispatcher.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.EventAccountVerified, messages[0].Event)
	assert.Equal(t, "owner@iskort.kz", messages[0].Contact.Email)
	assert.Equal(t, models.NotifBoth, messages[0].Contact.Preference)

	// после подтверждения вход разрешён
	login, err := f.auth.Login(ctx, f.db, models.RoleOwner, &dto.LoginRequest{Email: "owner@iskort.kz", Password: "secret12"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestVerify_SecondVerifyConflicts(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	regID := f.register(t, models.RoleUser, "user@iskort.kz")

	_, err := f.verifier.Verify(ctx, f.db, models.KindUser, regID, f.adminID)
	require.NoError(t, err)

	_, err = f.verifier.Verify(ctx, f.db, models.KindUser, regID, f.adminID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyVerified)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "user@iskort.kz").Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Len(t, f.dispatcher.Messages(), 1)
}

func TestVerify_ConcurrentRequestsSucceedOnce(t *testing.T) {
	f := newVerificationFixture(t)
	regID := f.register(t, models.RoleUser, "race@iskort.kz")

	const workers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.verifier.Verify(context.Background(), f.db, models.KindUser, regID, f.adminID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			if apperrors.HasCode(err, apperrors.CodeAlreadyVerified) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.dispatcher.Messages(), 1)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReject_PendingAccountRemoved(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	regID := f.register(t, models.RoleUser, "reject@iskort.kz")

	result, err := f.verifier.Reject(ctx, f.db, models.KindUser, regID)
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeRejected, result.Outcome)

	var count int64
	require.NoError(t, f.db.Model(&models.Registration{}).Where("id = ?", regID).Count(&count).Error)
	assert.Zero(t, count)

	messages := f.dispatcher.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.EventAccountRejected, messages[0].Event)

	// повторное отклонение и подтверждение после отклонения: записи уже нет
	_, err = f.verifier.Reject(ctx, f.db, models.KindUser, regID)
	assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	_, err = f.verifier.Verify(ctx, f.db, models.KindUser, regID, f.adminID)
	assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	assert.Len(t, f.dispatcher.Messages(), 1)

	// email освобождается для новой регистрации
	f.register(t, models.RoleUser, "reject@iskort.kz")
}

func TestReject_VerifiedRecordConflicts(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	regID := f.register(t, models.RoleOwner, "keep@iskort.kz")

	_, err := f.verifier.Verify(ctx, f.db, models.KindOwner, regID, f.adminID)
	require.NoError(t, err)

	_, err = f.verifier.Reject(ctx, f.db, models.KindOwner, regID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyVerified)

	var count int64
	require.NoError(t, f.db.Model(&models.Owner{}).Where("email = ?", "keep@iskort.kz").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerify_KindMustMatchRegistrationRole(t *testing.T) {
	f := newVerificationFixture(t)
	regID := f.register(t, models.RoleUser, "kind@iskort.kz")

	_, err := f.verifier.Verify(context.Background(), f.db, models.KindOwner, regID, f.adminID)
	assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}

func TestVerify_UnknownKind(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.verifier.Verify(context.Background(), f.db, models.SubjectKind("food"), 1, f.adminID)
	assertAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)

	_, err = f.verifier.Reject(context.Background(), f.db, models.SubjectKind("food"), 1)
	assertAppError(t, err, http.StatusBadRequest, apperrors.CodeValidationFailed)
}

func TestVerify_MissingRecord(t *testing.T) {
	f := newVerificationFixture(t)

	for _, kind := range []models.SubjectKind{models.KindAdmin, models.KindOwner, models.KindUser, models.KindEatery, models.KindHousing} {
		_, err := f.verifier.Verify(context.Background(), f.db, kind, 9999, f.adminID)
		assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
	}
	assert.Empty(t, f.dispatcher.Messages())
}

func TestVerify_Eatery(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	ownerID := helpers.CreateAccount(t, f.db, models.RoleOwner, "cafe@iskort.kz")
	eatery := helpers.CreateEatery(t, f.db, ownerID, "Dastarkhan", false)

	result, err := f.verifier.Verify(ctx, f.db, models.KindEatery, eatery.ID, f.adminID)
	require.NoError(t, err)
	assert.Nil(t, result.AccountID)

	var stored models.Eatery
	require.NoError(t, f.db.Take(&stored, eatery.ID).Error)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, models.ListingStatusVerified, stored.Status)
	require.NotNil(t, stored.VerifiedByAdminID)
	assert.Equal(t, f.adminID, *stored.VerifiedByAdminID)
	assert.NotNil(t, stored.VerifiedTime)

	messages := f.dispatcher.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.EventListingVerified, messages[0].Event)
	assert.Equal(t, "Dastarkhan", messages[0].Title)
	assert.Equal(t, "cafe@iskort.kz", messages[0].Contact.Email)

	_, err = f.verifier.Verify(ctx, f.db, models.KindEatery, eatery.ID, f.adminID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyVerified)

	_, err = f.verifier.Reject(ctx, f.db, models.KindEatery, eatery.ID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyVerified)
}

func TestReject_HousingRemovesChildren(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	ownerID := helpers.CreateAccount(t, f.db, models.RoleOwner, "flat@iskort.kz")
	housing := helpers.CreateHousing(t, f.db, ownerID, "Dorm 7", false)
	require.NoError(t, f.db.Create(&models.Facility{HousingID: housing.ID, Name: "Wi-Fi"}).Error)

	_, err := f.verifier.Reject(ctx, f.db, models.KindHousing, housing.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.Housing{}).Where("id = ?", housing.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&models.Facility{}).Where("housing_id = ?", housing.ID).Count(&count).Error)
	assert.Zero(t, count)

	messages := f.dispatcher.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.EventListingRejected, messages[0].Event)
	assert.Equal(t, "Dorm 7", messages[0].Title)

	_, err = f.verifier.Reject(ctx, f.db, models.KindHousing, housing.ID)
	assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)
}

// Строка ролевой таблицы с тем же email появилась после регистрации:
// вставка при подтверждении падает, переход статуса откатывается.
func TestVerify_FailedPromotionRollsBack(t *testing.T) {
	f := newVerificationFixture(t)
	regID := f.register(t, models.RoleOwner, "taken@iskort.kz")
	helpers.CreateAccount(t, f.db, models.RoleOwner, "taken@iskort.kz")

	_, err := f.verifier.Verify(context.Background(), f.db, models.KindOwner, regID, f.adminID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyExists)

	var reg models.Registration
	require.NoError(t, f.db.Take(&reg, regID).Error)
	assert.Equal(t, models.AccountStatusPending, reg.Status)
	assert.False(t, reg.IsVerified)
	assert.Nil(t, reg.VerifiedAt)
	assert.Nil(t, reg.AccountID)
	assert.NotEmpty(t, reg.PasswordHash)

	var owners int64
	require.NoError(t, f.db.Model(&models.Owner{}).Where("email = ?", "taken@iskort.kz").Count(&owners).Error)
	assert.Equal(t, int64(1), owners)

	assert.Empty(t, f.dispatcher.Messages())
}

// ============================================================================
// Устаревшее чтение: загрузка видит pending, а строка уже изменена другим запросом.
// Решение принимает условный UPDATE/DELETE.
// ============================================================================

type staleAccountRepo struct {
	repositories.AccountRepository
}

func (r staleAccountRepo) FindRegistrationByID(db *gorm.DB, id uint, role models.Role) (*models.Registration, error) {
	reg, err := r.AccountRepository.FindRegistrationByID(db, id, role)
	if err != nil {
		return nil, err
	}
	stale := *reg
	stale.Status = models.AccountStatusPending
	stale.IsVerified = false
	return &stale, nil
}

type staleEateryRepo struct {
	repositories.EateryRepository
}

func (r staleEateryRepo) FindByID(db *gorm.DB, id uint) (*models.Eatery, error) {
	eatery, err := r.EateryRepository.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	stale := *eatery
	stale.IsVerified = false
	stale.Status = models.ListingStatusPending
	return &stale, nil
}

func newStaleVerifier(dispatcher *helpers.RecordingDispatcher) services.VerificationService {
	return services.NewVerificationService(
		staleAccountRepo{repositories.NewAccountRepository()},
		staleEateryRepo{repositories.NewEateryRepository()},
		repositories.NewHousingRepository(),
		dispatcher,
	)
}

func TestVerify_StaleReadLosesConditionalUpdate(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	regID := f.register(t, models.RoleUser, "late@iskort.kz")

	_, err := f.verifier.Verify(ctx, f.db, models.KindUser, regID, f.adminID)
	require.NoError(t, err)

	stale := newStaleVerifier(f.dispatcher)
	_, err = stale.Verify(ctx, f.db, models.KindUser, regID, f.adminID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyVerified)

	var users int64
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "late@iskort.kz").Count(&users).Error)
	assert.Equal(t, int64(1), users, "role row must be inserted once")
	assert.Len(t, f.dispatcher.Messages(), 1)
}

func TestVerify_StaleReadEatery(t *testing.T) {
	f := newVerificationFixture(t)
	ownerID := helpers.CreateAccount(t, f.db, models.RoleOwner, "owner@iskort.kz")
	eatery := helpers.CreateEatery(t, f.db, ownerID, "Done Already", true)

	_, err := newStaleVerifier(f.dispatcher).Verify(context.Background(), f.db, models.KindEatery, eatery.ID, f.adminID)
	assertAppError(t, err, http.StatusConflict, apperrors.CodeAlreadyVerified)
	assert.Empty(t, f.dispatcher.Messages())
}

func TestReject_StaleReadLosesConditionalDelete(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	regID := f.register(t, models.RoleOwner, "kept@iskort.kz")
	_, err := f.verifier.Verify(ctx, f.db, models.KindOwner, regID, f.adminID)
	require.NoError(t, err)

	stale := newStaleVerifier(f.dispatcher)
	_, err = stale.Reject(ctx, f.db, models.KindOwner, regID)
	assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	var reg models.Registration
	require.NoError(t, f.db.Take(&reg, regID).Error)
	assert.Equal(t, models.AccountStatusVerified, reg.Status)

	ownerID := helpers.CreateAccount(t, f.db, models.RoleOwner, "lister@iskort.kz")
	eatery := helpers.CreateEatery(t, f.db, ownerID, "Verified Cafe", true)
	_, err = stale.Reject(ctx, f.db, models.KindEatery, eatery.ID)
	assertAppError(t, err, http.StatusNotFound, apperrors.CodeNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Eatery{}).Where("id = ?", eatery.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// только уведомление о первом подтверждении
	assert.Len(t, f.dispatcher.Messages(), 1)
}
