package mongodb

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByRideAndPassenger(ctx context.Context, rideID, passengerID primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"ride": rideID, "passenger": passengerID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking by ride and passenger: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByPassenger(ctx context.Context, passengerID primitive.ObjectID) ([]*models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"passenger": passengerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by passenger: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeBookings(ctx, cursor)
}

func (r *bookingRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ride": rideID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by ride: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeBookings(ctx, cursor)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	return nil
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, cursor.Err()
}
