package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/test/helpers"
)

func createRegistration(t *testing.T, db *gorm.DB, role models.Role, email string) *models.Registration {
	t.Helper()
	reg := &models.Registration{
		Name:         "Dana",
		Email:        email,
		Role:         role,
		PasswordHash: "hash",
		Status:       models.AccountStatusPending,
	}
	require.NoError(t, repositories.NewAccountRepository().CreateRegistration(db, reg))
	return reg
}

func TestMarkRegistrationVerified_OnlyOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewAccountRepository()
	reg := createRegistration(t, db, models.RoleOwner, "dana@iskort.kz")
	now := time.Now()

	changed, err := repo.MarkRegistrationVerified(db, reg.ID, models.RoleOwner, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkRegistrationVerified(db, reg.ID, models.RoleOwner, now)
	require.NoError(t, err)
	assert.False(t, changed)

	// роль входит в условие
	other := createRegistration(t, db, models.RoleUser, "dana@iskort.kz")
	changed, err = repo.MarkRegistrationVerified(db, other.ID, models.RoleOwner, now)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDeletePendingRegistration_KeepsVerifiedRow(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewAccountRepository()
	reg := createRegistration(t, db, models.RoleUser, "aibek@iskort.kz")

	_, err := repo.MarkRegistrationVerified(db, reg.ID, models.RoleUser, time.Now())
	require.NoError(t, err)

	removed, err := repo.DeletePendingRegistration(db, reg.ID, models.RoleUser)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.FindRegistrationByID(db, reg.ID, models.RoleUser)
	assert.NoError(t, err)

	pending := createRegistration(t, db, models.RoleUser, "spam@iskort.kz")
	removed, err = repo.DeletePendingRegistration(db, pending.ID, models.RoleUser)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeletePendingRegistration(db, pending.ID, models.RoleUser)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEateryMarkVerified_OnlyOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewEateryRepository()
	adminID := helpers.CreateAccount(t, db, models.RoleAdmin, "root@iskort.kz")
	ownerID := helpers.CreateAccount(t, db, models.RoleOwner, "owner@iskort.kz")
	eatery := helpers.CreateEatery(t, db, ownerID, "Qazaq Grill", false)
	now := time.Now()

	changed, err := repo.MarkVerified(db, eatery.ID, adminID, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkVerified(db, eatery.ID, adminID, now)
	require.NoError(t, err)
	assert.False(t, changed)

	loaded, err := repo.FindByID(db, eatery.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsVerified)
	require.NotNil(t, loaded.VerifiedByAdminID)
	assert.Equal(t, adminID, *loaded.VerifiedByAdminID)
}

func TestEateryDeleteUnverified_KeepsVerified(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewEateryRepository()
	ownerID := helpers.CreateAccount(t, db, models.RoleOwner, "owner@iskort.kz")
	verified := helpers.CreateEatery(t, db, ownerID, "Verified Cafe", true)
	pending := helpers.CreateEatery(t, db, ownerID, "Pending Cafe", false)

	removed, err := repo.DeleteUnverified(db, verified.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	_, err = repo.FindByID(db, verified.ID)
	assert.NoError(t, err)

	removed, err = repo.DeleteUnverified(db, pending.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = repo.FindByID(db, pending.ID)
	assert.ErrorIs(t, err, repositories.ErrEateryNotFound)
}

func TestHousingTransitions(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewHousingRepository()
	adminID := helpers.CreateAccount(t, db, models.RoleAdmin, "root@iskort.kz")
	ownerID := helpers.CreateAccount(t, db, models.RoleOwner, "owner@iskort.kz")
	housing := helpers.CreateHousing(t, db, ownerID, "Dorm 7", false)

	changed, err := repo.MarkVerified(db, housing.ID, adminID, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkVerified(db, housing.ID, adminID, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	removed, err := repo.DeleteUnverified(db, housing.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEateryList_SearchMatchesWildcardsLiterally(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewEateryRepository()
	ownerID := helpers.CreateAccount(t, db, models.RoleOwner, "owner@iskort.kz")
	helpers.CreateEatery(t, db, ownerID, "Cafe 100%", true)
	helpers.CreateEatery(t, db, ownerID, "Cafe 1000", true)
	helpers.CreateEatery(t, db, ownerID, "Bar_One", true)
	helpers.CreateEatery(t, db, ownerID, "BarXOne", true)

	found, total, err := repo.List(db, repositories.ListingFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, "Cafe 100%", found[0].Name)

	found, _, err = repo.List(db, repositories.ListingFilter{Search: "bar_"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bar_One", found[0].Name)

	// без экранирования "%" совпал бы со всеми четырьмя
	_, total, err = repo.List(db, repositories.ListingFilter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(db, repositories.ListingFilter{Search: "cafe"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
