package interfaces

import (
	"context"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateRating writes the recomputed aggregate rating.
	UpdateRating(ctx context.Context, id primitive.ObjectID, rating float64) error
}
