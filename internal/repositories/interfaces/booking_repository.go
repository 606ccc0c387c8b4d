package interfaces

import (
	"context"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)

	// GetByRideAndPassenger returns nil, nil when no booking exists for the
	// pair; the pair also carries a unique index.
	GetByRideAndPassenger(ctx context.Context, rideID, passengerID primitive.ObjectID) (*models.Booking, error)

	GetByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error)
	GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Booking, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error
}
