package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/notify"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

// VerificationService - перевод аккаунтов и объявлений из pending в verified или rejected.
// Оба конечных состояния терминальны.
type VerificationService interface {
	Verify(ctx context.Context, db *gorm.DB, kind models.SubjectKind, id, adminID uint) (*dto.VerificationResult, error)
	Reject(ctx context.Context, db *gorm.DB, kind models.SubjectKind, id uint) (*dto.VerificationResult, error)
}

// subject - загруженная запись, проходящая проверку
type subject struct {
	id       uint
	verified bool
	title    string
	contact  notify.Contact
	reg      *models.Registration
}

// descriptor описывает, как проверять записи одного типа
type descriptor struct {
	domain string
	load   func(db *gorm.DB, id uint) (*subject, error)
	// verify - условный переход; false если запись уже подтверждена
	verify func(tx *gorm.DB, s *subject, adminID uint, at time.Time) (bool, error)
	// promote только для аккаунтов: копия в ролевую таблицу, возвращает id новой строки
	promote func(tx *gorm.DB, s *subject) (uint, error)
	// remove - условное удаление при отклонении; false если удалять нечего
	remove func(tx *gorm.DB, s *subject) (bool, error)
	// record - актуальное состояние для ответа
	record func(db *gorm.DB, s *subject, accountID *uint) (interface{}, error)

	verifiedEvent notify.Event
	rejectedEvent notify.Event
}

type verificationService struct {
	accountRepo repositories.AccountRepository
	eateryRepo  repositories.EateryRepository
	housingRepo repositories.HousingRepository
	dispatcher  notify.Dispatcher
	descriptors map[models.SubjectKind]descriptor
	now         func() time.Time
}

func NewVerificationService(
	accountRepo repositories.AccountRepository,
	eateryRepo repositories.EateryRepository,
	housingRepo repositories.HousingRepository,
	dispatcher notify.Dispatcher,
) VerificationService {
	s := &verificationService{
		accountRepo: accountRepo,
		eateryRepo:  eateryRepo,
		housingRepo: housingRepo,
		dispatcher:  dispatcher,
		now:         func() time.Time { return time.Now().UTC() },
	}

	s.descriptors = map[models.SubjectKind]descriptor{
		models.KindAdmin:   s.accountDescriptor(models.RoleAdmin),
		models.KindOwner:   s.accountDescriptor(models.RoleOwner),
		models.KindUser:    s.accountDescriptor(models.RoleUser),
		models.KindEatery:  s.eateryDescriptor(),
		models.KindHousing: s.housingDescriptor(),
	}
	return s
}

// ============================================================================
// Verify / Reject
// ============================================================================

func (s *verificationService) Verify(ctx context.Context, db *gorm.DB, kind models.SubjectKind, id, adminID uint) (*dto.VerificationResult, error) {
	desc, err := s.descriptorFor(kind)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		subj      *subject
		accountID *uint
	)

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := desc.load(tx, id)
		if err != nil {
			return mapLoadError(err, desc.domain)
		}
		subj = loaded

		if subj.verified {
			return apperrors.ErrAlreadyVerified(desc.domain)
		}

		changed, err := desc.verify(tx, subj, adminID, now)
		if err != nil {
			return apperrors.ErrDatabase(err, desc.domain)
		}
		if !changed {
			return apperrors.ErrAlreadyVerified(desc.domain)
		}

		if desc.promote != nil {
			newID, err := desc.promote(tx, subj)
			if err != nil {
				if errors.Is(err, repositories.ErrDuplicateEmail) {
					return apperrors.ErrDuplicateEmail(desc.domain)
				}
				return apperrors.ErrDatabase(err, desc.domain)
			}
			accountID = &newID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Record verified", "kind", kind, "id", id, "admin_id", adminID)

	// уведомление только после коммита
	s.dispatcher.Dispatch(ctx, notify.Message{
		Event:       desc.verifiedEvent,
		SubjectKind: kind,
		SubjectID:   id,
		Title:       subj.title,
		Contact:     subj.contact,
	})

	result := &dto.VerificationResult{
		Kind:       kind,
		ID:         id,
		Outcome:    dto.OutcomeVerified,
		AccountID:  accountID,
		VerifiedAt: &now,
	}

	record, err := desc.record(db.WithContext(ctx), subj, accountID)
	if err != nil {
		// переход уже зафиксирован, ответ отдаём без записи
		logger.CtxWithError(ctx, "Failed to reload verified record", err, "kind", kind, "id", id)
		return result, nil
	}
	result.Record = record
	return result, nil
}

func (s *verificationService) Reject(ctx context.Context, db *gorm.DB, kind models.SubjectKind, id uint) (*dto.VerificationResult, error) {
	desc, err := s.descriptorFor(kind)
	if err != nil {
		return nil, err
	}

	var subj *subject
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := desc.load(tx, id)
		if err != nil {
			return mapLoadError(err, desc.domain)
		}
		subj = loaded

		if subj.verified {
			return apperrors.ErrAlreadyVerified(desc.domain)
		}

		removed, err := desc.remove(tx, subj)
		if err != nil {
			return apperrors.ErrDatabase(err, desc.domain)
		}
		if !removed {
			return apperrors.ErrNotFound(nil, desc.domain)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Record rejected", "kind", kind, "id", id)

	s.dispatcher.Dispatch(ctx, notify.Message{
		Event:       desc.rejectedEvent,
		SubjectKind: kind,
		SubjectID:   id,
		Title:       subj.title,
		Contact:     subj.contact,
	})

	return &dto.VerificationResult{
		Kind:    kind,
		ID:      id,
		Outcome: dto.OutcomeRejected,
	}, nil
}

func (s *verificationService) descriptorFor(kind models.SubjectKind) (descriptor, error) {
	desc, ok := s.descriptors[kind]
	if !ok {
		return descriptor{}, apperrors.ValidationError(map[string]string{
			"kind": fmt.Sprintf("unknown kind %q", kind),
		})
	}
	return desc, nil
}

func mapLoadError(err error, domain string) error {
	switch {
	case errors.Is(err, repositories.ErrRegistrationNotFound),
		errors.Is(err, repositories.ErrEateryNotFound),
		errors.Is(err, repositories.ErrHousingNotFound):
		return apperrors.ErrNotFound(err, domain)
	default:
		return apperrors.ErrDatabase(err, domain)
	}
}

// ============================================================================
// Дескрипторы
// ============================================================================

func (s *verificationService) accountDescriptor(role models.Role) descriptor {
	return descriptor{
		domain: string(role),
		load: func(db *gorm.DB, id uint) (*subject, error) {
			reg, err := s.accountRepo.FindRegistrationByID(db, id, role)
			if err != nil {
				return nil, err
			}
			return &subject{
				id:       reg.ID,
				verified: reg.Status == models.AccountStatusVerified,
				reg:      reg,
				contact: notify.Contact{
					Name:       reg.Name,
					Email:      reg.Email,
					Phone:      reg.PhoneNum,
					Preference: reg.NotifPreference,
				},
			}, nil
		},
		verify: func(tx *gorm.DB, subj *subject, _ uint, at time.Time) (bool, error) {
			return s.accountRepo.MarkRegistrationVerified(tx, subj.id, role, at)
		},
		promote: func(tx *gorm.DB, subj *subject) (uint, error) {
			accountID, err := s.accountRepo.CreateAccount(tx, role, subj.reg.Profile())
			if err != nil {
				return 0, err
			}
			if err := s.accountRepo.LinkRegistration(tx, subj.id, accountID); err != nil {
				return 0, err
			}
			return accountID, nil
		},
		remove: func(tx *gorm.DB, subj *subject) (bool, error) {
			return s.accountRepo.DeletePendingRegistration(tx, subj.id, role)
		},
		record: func(db *gorm.DB, _ *subject, accountID *uint) (interface{}, error) {
			if accountID == nil {
				return nil, repositories.ErrAccountNotFound
			}
			acc, err := s.accountRepo.FindAccountByID(db, role, *accountID)
			if err != nil {
				return nil, err
			}
			return dto.AccountFromModel(acc), nil
		},
		verifiedEvent: notify.EventAccountVerified,
		rejectedEvent: notify.EventAccountRejected,
	}
}

func ownerContact(owner *models.Owner) notify.Contact {
	if owner == nil {
		return notify.Contact{}
	}
	return notify.Contact{
		Name:       owner.Name,
		Email:      owner.Email,
		Phone:      owner.PhoneNum,
		Preference: owner.NotifPreference,
	}
}

func (s *verificationService) eateryDescriptor() descriptor {
	return descriptor{
		domain: "eatery",
		load: func(db *gorm.DB, id uint) (*subject, error) {
			eatery, err := s.eateryRepo.FindByID(db, id)
			if err != nil {
				return nil, err
			}
			return &subject{
				id:       eatery.ID,
				verified: eatery.IsVerified,
				title:    eatery.Name,
				contact:  ownerContact(eatery.Owner),
			}, nil
		},
		verify: func(tx *gorm.DB, subj *subject, adminID uint, at time.Time) (bool, error) {
			return s.eateryRepo.MarkVerified(tx, subj.id, adminID, at)
		},
		remove: func(tx *gorm.DB, subj *subject) (bool, error) {
			return s.eateryRepo.DeleteUnverified(tx, subj.id)
		},
		record: func(db *gorm.DB, subj *subject, _ *uint) (interface{}, error) {
			return s.eateryRepo.FindByID(db, subj.id)
		},
		verifiedEvent: notify.EventListingVerified,
		rejectedEvent: notify.EventListingRejected,
	}
}

func (s *verificationService) housingDescriptor() descriptor {
	return descriptor{
		domain: "housing",
		load: func(db *gorm.DB, id uint) (*subject, error) {
			housing, err := s.housingRepo.FindByID(db, id)
			if err != nil {
				return nil, err
			}
			return &subject{
				id:       housing.ID,
				verified: housing.IsVerified,
				title:    housing.Name,
				contact:  ownerContact(housing.Owner),
			}, nil
		},
		verify: func(tx *gorm.DB, subj *subject, adminID uint, at time.Time) (bool, error) {
			return s.housingRepo.MarkVerified(tx, subj.id, adminID, at)
		},
		remove: func(tx *gorm.DB, subj *subject) (bool, error) {
			return s.housingRepo.DeleteUnverified(tx, subj.id)
		},
		record: func(db *gorm.DB, subj *subject, _ *uint) (interface{}, error) {
			return s.housingRepo.FindByID(db, subj.id)
		},
		verifiedEvent: notify.EventListingVerified,
		rejectedEvent: notify.EventListingRejected,
	}
}
