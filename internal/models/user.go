package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	Password       string             `json:"-" bson:"password"`
	IsDriver       bool               `json:"is_driver" bson:"is_driver"`
	ProfilePicture string             `json:"profile_picture" bson:"profile_picture"`
	Phone          string             `json:"phone" bson:"phone"`
	Bio            string             `json:"bio" bson:"bio"`
	Rating         float64            `json:"rating" bson:"rating"`
	TotalRides     int                `json:"total_rides" bson:"total_rides"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the public projection embedded in ride, booking and
// review responses in place of a bare ObjectID reference.
type UserSummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	ProfilePicture string             `json:"profile_picture" bson:"profile_picture"`
	Phone          string             `json:"phone,omitempty" bson:"phone"`
	Rating         float64            `json:"rating" bson:"rating"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Phone:          u.Phone,
		Rating:         u.Rating,
	}
}
