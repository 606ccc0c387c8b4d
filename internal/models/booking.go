package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is shared by booking documents and the passenger entries
// embedded in rides.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Ride         primitive.ObjectID `json:"ride" bson:"ride"`
	Passenger    primitive.ObjectID `json:"passenger" bson:"passenger"`
	Status       BookingStatus      `json:"status" bson:"status"`
	PickupPoint  *Point             `json:"pickup_point,omitempty" bson:"pickup_point,omitempty"`
	DropoffPoint *Point             `json:"dropoff_point,omitempty" bson:"dropoff_point,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
