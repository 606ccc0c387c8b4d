package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Ride      primitive.ObjectID `json:"ride" bson:"ride"`
	Reviewer  primitive.ObjectID `json:"reviewer" bson:"reviewer"`
	Reviewee  primitive.ObjectID `json:"reviewee" bson:"reviewee"`
	Rating    int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
