package services

import (
	"context"
	"errors"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/utils"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService interface {
	Create(ctx context.Context, reviewerID primitive.ObjectID, request *CreateReviewRequest) (*ReviewResponse, error)
	GetForUser(ctx context.Context, userID primitive.ObjectID) ([]*ReviewResponse, error)
	GetForRide(ctx context.Context, rideID primitive.ObjectID) ([]*ReviewResponse, error)
}

type CreateReviewRequest struct {
	RideID     string `json:"ride_id" validate:"required"`
	RevieweeID string `json:"reviewee_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,rating"`
	Comment    string `json:"comment"`
}

type reviewService struct {
	reviewRepo interfaces.ReviewRepository
	rideRepo   interfaces.RideRepository
	userRepo   interfaces.UserRepository
	users      *userResolver
	logger     *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	rideRepo interfaces.RideRepository,
	userRepo interfaces.UserRepository,
	logger *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		rideRepo:   rideRepo,
		userRepo:   userRepo,
		users:      &userResolver{userRepo: userRepo},
		logger:     logger,
	}
}

// Create records a review and refreshes the reviewee's aggregate rating.
// Both sides must have taken part in a completed ride: the driver, or a
// passenger whose booking was confirmed.
func (s *reviewService) Create(ctx context.Context, reviewerID primitive.ObjectID, request *CreateReviewRequest) (*ReviewResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	rideID, err := primitive.ObjectIDFromHex(request.RideID)
	if err != nil {
		return nil, ErrRideNotFound
	}

	revieweeID, err := primitive.ObjectIDFromHex(request.RevieweeID)
	if err != nil {
		return nil, ErrRevieweeNotParticipant
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if ride.Status != models.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	if !s.isParticipant(ride, reviewerID) {
		return nil, ErrReviewerNotParticipant
	}

	if !s.isParticipant(ride, revieweeID) {
		return nil, ErrRevieweeNotParticipant
	}

	if reviewerID == revieweeID {
		return nil, ErrSelfReview
	}

	exists, err := s.reviewRepo.Exists(ctx, rideID, reviewerID, revieweeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		Ride:     rideID,
		Reviewer: reviewerID,
		Reviewee: revieweeID,
		Rating:   request.Rating,
		Comment:  request.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		s.logger.WithError(err).Error("Failed to create review")
		return nil, err
	}

	s.refreshRating(ctx, revieweeID)

	s.logger.WithUserID(reviewerID).WithRideID(rideID).
		WithField("rating", request.Rating).Info("Review created")

	return s.toResponse(ctx, review, buildRideSummary(ride))
}

// refreshRating recomputes the reviewee's average across all of their
// reviews, rounded to one decimal. A failure here is logged and
// swallowed; the review itself already persisted.
func (s *reviewService) refreshRating(ctx context.Context, revieweeID primitive.ObjectID) {
	avg, count, err := s.reviewRepo.GetAverageRating(ctx, revieweeID)
	if err != nil {
		s.logger.WithError(err).WithUserID(revieweeID).Error("Failed to compute average rating")
		return
	}
	if count == 0 {
		return
	}

	if err := s.userRepo.UpdateRating(ctx, revieweeID, utils.Round1(avg)); err != nil {
		s.logger.WithError(err).WithUserID(revieweeID).Error("Failed to update user rating")
	}
}

func (s *reviewService) isParticipant(ride *models.Ride, userID primitive.ObjectID) bool {
	return ride.Driver == userID || ride.HasConfirmedPassenger(userID)
}

func (s *reviewService) GetForUser(ctx context.Context, userID primitive.ObjectID) ([]*ReviewResponse, error) {
	reviews, err := s.reviewRepo.GetByReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, reviews, true)
}

func (s *reviewService) GetForRide(ctx context.Context, rideID primitive.ObjectID) ([]*ReviewResponse, error) {
	if _, err := s.rideRepo.GetByID(ctx, rideID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.GetByRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, reviews, false)
}

func (s *reviewService) toResponses(ctx context.Context, reviews []*models.Review, withRide bool) ([]*ReviewResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(reviews)*2)
	for _, review := range reviews {
		ids = append(ids, review.Reviewer, review.Reviewee)
	}

	users, err := s.users.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	rideSummaries := make(map[primitive.ObjectID]*RideSummary)
	if withRide {
		for _, review := range reviews {
			if _, ok := rideSummaries[review.Ride]; ok {
				continue
			}
			ride, err := s.rideRepo.GetByID(ctx, review.Ride)
			if err != nil {
				if errors.Is(err, interfaces.ErrNotFound) {
					continue
				}
				return nil, err
			}
			rideSummaries[review.Ride] = buildRideSummary(ride)
		}
	}

	responses := make([]*ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, &ReviewResponse{
			ID:        review.ID,
			Ride:      rideSummaries[review.Ride],
			RideID:    review.Ride,
			Reviewer:  users[review.Reviewer],
			Reviewee:  users[review.Reviewee],
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}

	return responses, nil
}

func (s *reviewService) toResponse(ctx context.Context, review *models.Review, ride *RideSummary) (*ReviewResponse, error) {
	users, err := s.users.resolve(ctx, []primitive.ObjectID{review.Reviewer, review.Reviewee})
	if err != nil {
		return nil, err
	}

	return &ReviewResponse{
		ID:        review.ID,
		Ride:      ride,
		RideID:    review.Ride,
		Reviewer:  users[review.Reviewer],
		Reviewee:  users[review.Reviewee],
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}, nil
}
