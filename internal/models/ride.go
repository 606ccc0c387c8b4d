package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RideStatusScheduled  RideStatus = "scheduled"
	RideStatusInProgress RideStatus = "in-progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

func (s RideStatus) Valid() bool {
	switch s {
	case RideStatusScheduled, RideStatusInProgress, RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// Passenger is the ride-side mirror of a booking. Its status is kept in
// sync with the booking document on every transition; the two are stored
// independently.
type Passenger struct {
	User         primitive.ObjectID `json:"user" bson:"user"`
	Status       BookingStatus      `json:"status" bson:"status"`
	PickupPoint  *Point             `json:"pickup_point,omitempty" bson:"pickup_point,omitempty"`
	DropoffPoint *Point             `json:"dropoff_point,omitempty" bson:"dropoff_point,omitempty"`
}

type CarDetails struct {
	Make         string `json:"make" bson:"make"`
	Model        string `json:"model" bson:"model"`
	Color        string `json:"color" bson:"color"`
	LicensePlate string `json:"license_plate" bson:"license_plate"`
}

type Ride struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Driver               primitive.ObjectID `json:"driver" bson:"driver"`
	DepartureLocation    Location           `json:"departure_location" bson:"departure_location" validate:"required"`
	DestinationLocation  Location           `json:"destination_location" bson:"destination_location" validate:"required"`
	DepartureTime        time.Time          `json:"departure_time" bson:"departure_time" validate:"required"`
	EstimatedArrivalTime time.Time          `json:"estimated_arrival_time" bson:"estimated_arrival_time" validate:"required"`
	Price                float64            `json:"price" bson:"price" validate:"required"`
	AvailableSeats       int                `json:"available_seats" bson:"available_seats" validate:"required,min=1"`
	Description          string             `json:"description" bson:"description"`
	CarDetails           *CarDetails        `json:"car_details,omitempty" bson:"car_details,omitempty"`
	Passengers           []Passenger        `json:"passengers" bson:"passengers"`
	Status               RideStatus         `json:"status" bson:"status"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
}

// FindPassenger returns the index of userID in the passenger list, or -1.
func (r *Ride) FindPassenger(userID primitive.ObjectID) int {
	for i := range r.Passengers {
		if r.Passengers[i].User == userID {
			return i
		}
	}
	return -1
}

// HasConfirmedPassenger reports whether userID holds a confirmed seat.
func (r *Ride) HasConfirmedPassenger(userID primitive.ObjectID) bool {
	i := r.FindPassenger(userID)
	return i >= 0 && r.Passengers[i].Status == BookingStatusConfirmed
}

// ConfirmedCount returns the number of confirmed passenger entries.
func (r *Ride) ConfirmedCount() int {
	n := 0
	for i := range r.Passengers {
		if r.Passengers[i].Status == BookingStatusConfirmed {
			n++
		}
	}
	return n
}
