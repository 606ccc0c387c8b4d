package interfaces

import (
	"context"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error

	// Exists reports whether a review for the (ride, reviewer, reviewee)
	// triple already exists; the triple also carries a unique index.
	Exists(ctx context.Context, rideID, reviewerID, revieweeID primitive.ObjectID) (bool, error)

	GetByReviewee(ctx context.Context, revieweeID primitive.ObjectID) ([]*models.Review, error)
	GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Review, error)

	// GetAverageRating computes the mean of all ratings addressed to a user.
	// The second return is the review count; zero count means no rating.
	GetAverageRating(ctx context.Context, revieweeID primitive.ObjectID) (float64, int64, error)
}
