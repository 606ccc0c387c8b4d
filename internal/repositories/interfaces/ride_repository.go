package interfaces

import (
	"context"
	"time"

	"carpool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RideFilter describes the public listing filters. Zero values mean
// "not set"; the date filter expands to a whole-day window.
type RideFilter struct {
	DepartureCity   string
	DestinationCity string
	DepartureDate   *time.Time
	MinPrice        *float64
	MaxPrice        *float64
	MinSeats        *int
	SortBy          string // "price" or "departure_time"
	SortOrder       string // "asc" or "desc"
	Skip            int
	Limit           int // 0 means no limit
}

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Search returns the filter's page of scheduled rides plus the total
	// match count.
	Search(ctx context.Context, filter *RideFilter) ([]*models.Ride, int64, error)

	// Self-scoped listings, newest departure first.
	GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error)
	GetByPassenger(ctx context.Context, userID primitive.ObjectID) ([]*models.Ride, error)

	// Passenger list mutation, mirroring the booking ledger.
	AddPassenger(ctx context.Context, rideID primitive.ObjectID, passenger *models.Passenger) error
	UpdatePassengerStatus(ctx context.Context, rideID, userID primitive.ObjectID, status models.BookingStatus) error

	SetAvailableSeats(ctx context.Context, rideID primitive.ObjectID, seats int) error
	UpdateStatus(ctx context.Context, rideID primitive.ObjectID, status models.RideStatus) error
}
