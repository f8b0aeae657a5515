package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

type AccountService interface {
	ListAccounts(ctx context.Context, db *gorm.DB, query dto.AccountListQuery) ([]dto.AccountSummary, error)
	ListOwners(ctx context.Context, db *gorm.DB, page dto.Pagination) ([]dto.OwnerResponse, int64, error)
	GetOwner(ctx context.Context, db *gorm.DB, id uint) (*dto.OwnerResponse, error)
	GetOwnerEateries(ctx context.Context, db *gorm.DB, id uint) ([]models.Eatery, error)
	GetOwnerHousings(ctx context.Context, db *gorm.DB, id uint) ([]models.Housing, error)
}

type accountService struct {
	accountRepo repositories.AccountRepository
	eateryRepo  repositories.EateryRepository
	housingRepo repositories.HousingRepository
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	eateryRepo repositories.EateryRepository,
	housingRepo repositories.HousingRepository,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		eateryRepo:  eateryRepo,
		housingRepo: housingRepo,
	}
}

// ListAccounts - все аккаунты всех ролей плюс ожидающие проверки регистрации
func (s *accountService) ListAccounts(ctx context.Context, db *gorm.DB, query dto.AccountListQuery) ([]dto.AccountSummary, error) {
	records, err := s.accountRepo.ListAccounts(db.WithContext(ctx), repositories.AccountFilter{
		Role:   query.Role,
		Status: query.Status,
	})
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "account")
	}

	summaries := make([]dto.AccountSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, dto.AccountSummary{
			ID:              r.ID,
			Name:            r.Name,
			Email:           r.Email,
			Phone:           r.PhoneNum,
			NotifPreference: r.NotifPreference,
			Role:            r.Role,
			Status:          r.Status,
			IsVerified:      r.IsVerified,
			CreatedAt:       r.CreatedAt,
			SourceTable:     r.SourceTable,
		})
	}
	return summaries, nil
}

func (s *accountService) ListOwners(ctx context.Context, db *gorm.DB, page dto.Pagination) ([]dto.OwnerResponse, int64, error) {
	owners, total, err := s.accountRepo.ListOwners(db.WithContext(ctx), page.Limit, page.Offset())
	if err != nil {
		return nil, 0, apperrors.ErrDatabase(err, "owner")
	}

	result := make([]dto.OwnerResponse, 0, len(owners))
	for i := range owners {
		result = append(result, dto.OwnerFromModel(&owners[i]))
	}
	return result, total, nil
}

func (s *accountService) GetOwner(ctx context.Context, db *gorm.DB, id uint) (*dto.OwnerResponse, error) {
	owner, err := s.accountRepo.FindOwnerWithListings(db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrNotFound(err, "owner")
		}
		return nil, apperrors.ErrDatabase(err, "owner")
	}
	resp := dto.OwnerFromModel(owner)
	return &resp, nil
}

func (s *accountService) GetOwnerEateries(ctx context.Context, db *gorm.DB, id uint) ([]models.Eatery, error) {
	db = db.WithContext(ctx)
	if err := s.ensureOwner(db, id); err != nil {
		return nil, err
	}
	eateries, _, err := s.eateryRepo.List(db, repositories.ListingFilter{OwnerID: &id})
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "eatery")
	}
	return eateries, nil
}

func (s *accountService) GetOwnerHousings(ctx context.Context, db *gorm.DB, id uint) ([]models.Housing, error) {
	db = db.WithContext(ctx)
	if err := s.ensureOwner(db, id); err != nil {
		return nil, err
	}
	housings, _, err := s.housingRepo.List(db, repositories.ListingFilter{OwnerID: &id})
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "housing")
	}
	return housings, nil
}

func (s *accountService) ensureOwner(db *gorm.DB, id uint) error {
	if _, err := s.accountRepo.FindAccountByID(db, models.RoleOwner, id); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.ErrNotFound(err, "owner")
		}
		return apperrors.ErrDatabase(err, "owner")
	}
	return nil
}
