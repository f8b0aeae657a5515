package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"iskort_backend/internal/auth"
	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/services/dto"
	"iskort_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, role models.Role, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, db *gorm.DB, role models.Role, req *dto.LoginRequest) (*dto.LoginResponse, error)
	SeedFirstAdmin(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error)
}

type AuthServiceImpl struct {
	accountRepo  repositories.AccountRepository
	tokenManager *auth.TokenManager
}

func NewAuthService(accountRepo repositories.AccountRepository, tokenManager *auth.TokenManager) AuthService {
	return &AuthServiceImpl{
		accountRepo:  accountRepo,
		tokenManager: tokenManager,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRole(role models.Role) error {
	if !role.Valid() {
		return apperrors.ValidationError(map[string]string{
			"role": fmt.Sprintf("unknown role %q", role),
		})
	}
	return nil
}

// Register - регистрация попадает в staging и ждёт проверки администратором
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, role models.Role, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	db = db.WithContext(ctx)
	email := normalizeEmail(req.Email)

	taken, err := s.accountRepo.EmailTaken(db, role, email)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "auth")
	}
	if taken {
		return nil, apperrors.ErrDuplicateEmail(string(role))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	pref := req.NotifPreference
	if pref == "" {
		pref = models.NotifEmail
	}

	reg := &models.Registration{
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		Role:            role,
		PasswordHash:    hash,
		PhoneNum:        strings.TrimSpace(req.PhoneNum),
		NotifPreference: pref,
		IsVerified:      false,
		Status:          models.AccountStatusPending,
	}

	if err := s.accountRepo.CreateRegistration(db, reg); err != nil {
		// гонка двух одинаковых регистраций упирается в уникальный индекс
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.ErrDuplicateEmail(string(role))
		}
		return nil, apperrors.ErrDatabase(err, "auth")
	}

	logger.CtxInfo(ctx, "Registration created", "role", role, "registration_id", reg.ID)

	return &dto.RegisterResponse{
		Success: true,
		Message: "Registration received. Your account will be available after admin verification.",
		User:    dto.AccountFromRegistration(reg),
	}, nil
}

// Login - вход в конкретной роли по ролевой таблице
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, role models.Role, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)
	email := normalizeEmail(req.Email)

	acc, err := s.accountRepo.FindAccountByEmail(db, role, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, apperrors.ErrDatabase(err, "auth")
		}
		return nil, s.explainMissingAccount(ctx, db, role, email, req.Password)
	}

	if !auth.CheckPasswordHash(req.Password, acc.PasswordHash) {
		logger.CtxWarn(ctx, "Login failed: wrong password", "role", role)
		return nil, apperrors.ErrInvalidCredentials()
	}

	token, err := s.tokenManager.GenerateToken(acc.ID, role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Login succeeded", "role", role, "account_id", acc.ID)

	return &dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    dto.AccountFromModel(acc),
		Token:   token,
	}, nil
}

// explainMissingAccount - почему email не найден в ролевой таблице
func (s *AuthServiceImpl) explainMissingAccount(ctx context.Context, db *gorm.DB, role models.Role, email, password string) error {
	reg, err := s.accountRepo.FindRegistrationByEmail(db, email, role)
	switch {
	case err == nil:
		if reg.Status.IsPending() && auth.CheckPasswordHash(password, reg.PasswordHash) {
			return apperrors.ErrAccountNotVerified()
		}
		return apperrors.ErrInvalidCredentials()
	case !errors.Is(err, repositories.ErrRegistrationNotFound):
		return apperrors.ErrDatabase(err, "auth")
	}

	roles, err := s.accountRepo.RolesForEmail(db, email)
	if err != nil {
		return apperrors.ErrDatabase(err, "auth")
	}
	if len(roles) > 0 {
		logger.CtxWarn(ctx, "Login in wrong role", "role", role, "registered_roles", roles)
		return apperrors.ErrWrongRole(string(role))
	}
	return apperrors.ErrInvalidCredentials()
}

// SeedFirstAdmin создаёт администратора при пустой таблице admins
func (s *AuthServiceImpl) SeedFirstAdmin(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	if err := auth.ValidatePassword(password); err != nil {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	created := false
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.accountRepo.CountAccounts(tx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		_, err = s.accountRepo.CreateAccount(tx, models.RoleAdmin, models.AccountProfile{
			Name:            name,
			Email:           normalizeEmail(email),
			PasswordHash:    hash,
			NotifPreference: models.NotifEmail,
			IsVerified:      true,
			Status:          models.AccountStatusVerified,
		})
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
