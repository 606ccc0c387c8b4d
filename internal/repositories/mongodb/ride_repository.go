package mongodb

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/services"
	"carpool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRideRepository(db *mongo.Database, cache services.CacheService) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
		cache:      cache,
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()
	if ride.Passengers == nil {
		ride.Passengers = []models.Passenger{}
	}

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	if r.cache != nil && ride.Status == models.RideStatusScheduled {
		r.cache.CacheRide(ctx, ride)
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	if r.cache != nil {
		if ride := r.cache.GetCachedRide(ctx, id); ride != nil {
			return ride, nil
		}
	}

	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if r.cache != nil && ride.Status == models.RideStatusScheduled {
		r.cache.CacheRide(ctx, &ride)
	}

	return &ride, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update ride: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	if r.cache != nil {
		r.cache.InvalidateRide(ctx, id)
	}

	return nil
}

func (r *rideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}

	if result.DeletedCount == 0 {
		return interfaces.ErrNotFound
	}

	if r.cache != nil {
		r.cache.InvalidateRide(ctx, id)
	}

	return nil
}

func (r *rideRepository) Search(ctx context.Context, filter *interfaces.RideFilter) ([]*models.Ride, int64, error) {
	// Listings only ever show scheduled rides.
	query := bson.M{"status": models.RideStatusScheduled}

	if filter.DepartureCity != "" {
		query["departure_location.city"] = bson.M{"$regex": filter.DepartureCity, "$options": "i"}
	}
	if filter.DestinationCity != "" {
		query["destination_location.city"] = bson.M{"$regex": filter.DestinationCity, "$options": "i"}
	}
	if filter.DepartureDate != nil {
		query["departure_time"] = bson.M{
			"$gte": utils.StartOfDay(*filter.DepartureDate),
			"$lte": utils.EndOfDay(*filter.DepartureDate),
		}
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if filter.MinSeats != nil {
		query["available_seats"] = bson.M{"$gte": *filter.MinSeats}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rides: %w", err)
	}

	opts := options.Find().SetSort(sortSpec(filter.SortBy, filter.SortOrder))
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search rides: %w", err)
	}
	defer cursor.Close(ctx)

	rides, err := decodeRides(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return rides, total, nil
}

func sortSpec(sortBy, sortOrder string) bson.D {
	order := 1
	if sortOrder == "desc" {
		order = -1
	}

	switch sortBy {
	case "price":
		return bson.D{{Key: "price", Value: order}}
	case "departure_time":
		return bson.D{{Key: "departure_time", Value: order}}
	default:
		// Default sort: departure time ascending.
		return bson.D{{Key: "departure_time", Value: 1}}
	}
}

func (r *rideRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"driver": driverID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get rides by driver: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeRides(ctx, cursor)
}

func (r *rideRepository) GetByPassenger(ctx context.Context, userID primitive.ObjectID) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"passengers.user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get rides by passenger: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeRides(ctx, cursor)
}

func (r *rideRepository) AddPassenger(ctx context.Context, rideID primitive.ObjectID, passenger *models.Passenger) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": rideID},
		bson.M{
			"$push": bson.M{"passengers": passenger},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add passenger: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	if r.cache != nil {
		r.cache.InvalidateRide(ctx, rideID)
	}

	return nil
}

func (r *rideRepository) UpdatePassengerStatus(ctx context.Context, rideID, userID primitive.ObjectID, status models.BookingStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": rideID, "passengers.user": userID},
		bson.M{
			"$set": bson.M{
				"passengers.$.status": status,
				"updated_at":          time.Now(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update passenger status: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}

	if r.cache != nil {
		r.cache.InvalidateRide(ctx, rideID)
	}

	return nil
}

func (r *rideRepository) SetAvailableSeats(ctx context.Context, rideID primitive.ObjectID, seats int) error {
	return r.Update(ctx, rideID, map[string]interface{}{"available_seats": seats})
}

func (r *rideRepository) UpdateStatus(ctx context.Context, rideID primitive.ObjectID, status models.RideStatus) error {
	return r.Update(ctx, rideID, map[string]interface{}{"status": status})
}

func decodeRides(ctx context.Context, cursor *mongo.Cursor) ([]*models.Ride, error) {
	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}

	return rides, cursor.Err()
}
