package services

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response types resolve ObjectID references into user summaries, the
// way the HTTP layer presents documents.

type PassengerResponse struct {
	User         *models.UserSummary  `json:"user"`
	Status       models.BookingStatus `json:"status"`
	PickupPoint  *models.Point        `json:"pickup_point,omitempty"`
	DropoffPoint *models.Point        `json:"dropoff_point,omitempty"`
}

type RideResponse struct {
	ID                   primitive.ObjectID  `json:"id"`
	Driver               *models.UserSummary `json:"driver"`
	DepartureLocation    models.Location     `json:"departure_location"`
	DestinationLocation  models.Location     `json:"destination_location"`
	DepartureTime        time.Time           `json:"departure_time"`
	EstimatedArrivalTime time.Time           `json:"estimated_arrival_time"`
	Price                float64             `json:"price"`
	AvailableSeats       int                 `json:"available_seats"`
	Description          string              `json:"description,omitempty"`
	CarDetails           *models.CarDetails  `json:"car_details,omitempty"`
	Passengers           []PassengerResponse `json:"passengers"`
	Status               models.RideStatus   `json:"status"`
	CreatedAt            time.Time           `json:"created_at"`
}

type BookingResponse struct {
	ID           primitive.ObjectID   `json:"id"`
	Ride         *RideResponse        `json:"ride,omitempty"`
	RideID       primitive.ObjectID   `json:"ride_id"`
	Passenger    *models.UserSummary  `json:"passenger"`
	Status       models.BookingStatus `json:"status"`
	PickupPoint  *models.Point        `json:"pickup_point,omitempty"`
	DropoffPoint *models.Point        `json:"dropoff_point,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// RideSummary is the compact trip descriptor attached to review listings.
type RideSummary struct {
	ID                  primitive.ObjectID `json:"id"`
	DepartureLocation   models.Location    `json:"departure_location"`
	DestinationLocation models.Location    `json:"destination_location"`
	DepartureTime       time.Time          `json:"departure_time"`
}

type ReviewResponse struct {
	ID        primitive.ObjectID  `json:"id"`
	Ride      *RideSummary        `json:"ride,omitempty"`
	RideID    primitive.ObjectID  `json:"ride_id"`
	Reviewer  *models.UserSummary `json:"reviewer"`
	Reviewee  *models.UserSummary `json:"reviewee"`
	Rating    int                 `json:"rating"`
	Comment   string              `json:"comment,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// userResolver batch-loads user summaries for response assembly.
type userResolver struct {
	userRepo interfaces.UserRepository
}

func (ur *userResolver) resolve(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	users, err := ur.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	summaries := make(map[primitive.ObjectID]*models.UserSummary, len(users))
	for id, user := range users {
		summaries[id] = user.Summary()
	}
	return summaries, nil
}

func rideUserIDs(rides []*models.Ride) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID

	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, ride := range rides {
		add(ride.Driver)
		for i := range ride.Passengers {
			add(ride.Passengers[i].User)
		}
	}
	return ids
}

func buildRideResponse(ride *models.Ride, users map[primitive.ObjectID]*models.UserSummary) *RideResponse {
	passengers := make([]PassengerResponse, 0, len(ride.Passengers))
	for i := range ride.Passengers {
		p := &ride.Passengers[i]
		passengers = append(passengers, PassengerResponse{
			User:         users[p.User],
			Status:       p.Status,
			PickupPoint:  p.PickupPoint,
			DropoffPoint: p.DropoffPoint,
		})
	}

	return &RideResponse{
		ID:                   ride.ID,
		Driver:               users[ride.Driver],
		DepartureLocation:    ride.DepartureLocation,
		DestinationLocation:  ride.DestinationLocation,
		DepartureTime:        ride.DepartureTime,
		EstimatedArrivalTime: ride.EstimatedArrivalTime,
		Price:                ride.Price,
		AvailableSeats:       ride.AvailableSeats,
		Description:          ride.Description,
		CarDetails:           ride.CarDetails,
		Passengers:           passengers,
		Status:               ride.Status,
		CreatedAt:            ride.CreatedAt,
	}
}

func buildRideSummary(ride *models.Ride) *RideSummary {
	return &RideSummary{
		ID:                  ride.ID,
		DepartureLocation:   ride.DepartureLocation,
		DestinationLocation: ride.DestinationLocation,
		DepartureTime:       ride.DepartureTime,
	}
}
