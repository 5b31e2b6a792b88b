package usecase

import (
	"context"
	"time"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/pkg/config"
	"gigstage/pkg/errors"
)

// AuthClient is the identity provider collaborator.
type AuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateSessionToken(ctx context.Context, uid string) (string, error)
}

type AuthUsecase struct {
	userRepo repository.UserRepository
	auth     AuthClient
	cfg      *config.Config
}

func NewAuthUsecase(userRepo repository.UserRepository, auth AuthClient, cfg *config.Config) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		auth:     auth,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	City     string `json:"city"`
}

// Register creates the identity-provider account and the profile row.
// Everyone starts as a customer; performer profiles are separate.
func (uc *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, errors.Conflict("An account with this email already exists")
	}

	uid, err := uc.auth.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Internal("Failed to create account", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		Email:     input.Email,
		Username:  input.Username,
		Phone:     input.Phone,
		FullName:  input.FullName,
		City:      input.City,
		Role:      "customer",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DevLogin issues a session token by email. Development only; the
// router never mounts it in production.
func (uc *AuthUsecase) DevLogin(ctx context.Context, email string) (string, *entity.User, error) {
	if uc.cfg.Environment == "production" {
		return "", nil, errors.Forbidden("Not available", nil)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	token, err := uc.auth.GenerateSessionToken(ctx, user.ID)
	if err != nil {
		return "", nil, errors.Internal("Failed to generate token", err)
	}

	return token, user, nil
}

// GetProfile returns the caller's own user document.
func (uc *AuthUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	City     string `json:"city"`
}

func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.City != "" {
		user.City = input.City
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
