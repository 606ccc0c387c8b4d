package services

import (
	"context"
	"errors"
	"fmt"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error)
	ToggleDriver(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type UpdateProfileRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}

type userService struct {
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateProfile applies a partial update. Empty fields are skipped, so a
// caller cannot blank out a profile field.
func (s *userService) UpdateProfile(ctx context.Context, id primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error) {
	updates := make(map[string]interface{})
	if request.Name != "" {
		updates["name"] = request.Name
	}
	if request.Phone != "" {
		updates["phone"] = request.Phone
	}
	if request.Bio != "" {
		updates["bio"] = request.Bio
	}
	if request.ProfilePicture != "" {
		updates["profile_picture"] = request.ProfilePicture
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, id, updates); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

func (s *userService) ToggleDriver(ctx context.Context, id primitive.ObjectID) (bool, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	isDriver := !user.IsDriver
	if err := s.userRepo.Update(ctx, id, map[string]interface{}{"is_driver": isDriver}); err != nil {
		return false, fmt.Errorf("failed to toggle driver flag: %w", err)
	}

	s.logger.WithUserID(id).WithField("is_driver", isDriver).Info("Driver flag toggled")

	return isDriver, nil
}
