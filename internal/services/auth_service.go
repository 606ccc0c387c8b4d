package services

import (
	"context"
	"errors"
	"fmt"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"
	"carpool/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
}

type authService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	IsDriver bool   `json:"is_driver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), utils.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     request.Name,
		Email:    request.Email,
		Password: string(hashed),
		IsDriver: request.IsDriver,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		s.logger.WithError(err).Error("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(user.ID, user.IsDriver, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithUserID(user.ID).Info("User registered")

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			// Unknown email and wrong password are indistinguishable.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.IsDriver, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return &AuthResponse{Token: token, User: user}, nil
}
