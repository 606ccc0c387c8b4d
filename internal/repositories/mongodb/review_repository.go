package mongodb

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewReviewRepository(db *mongo.Database, cache services.CacheService) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection("reviews"),
		cache:      cache,
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if r.cache != nil {
		r.cache.InvalidateUserRating(ctx, review.Reviewee)
	}

	return nil
}

func (r *reviewRepository) Exists(ctx context.Context, rideID, reviewerID, revieweeID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"ride":     rideID,
		"reviewer": reviewerID,
		"reviewee": revieweeID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return count > 0, nil
}

func (r *reviewRepository) GetByReviewee(ctx context.Context, revieweeID primitive.ObjectID) ([]*models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"reviewee": revieweeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews by reviewee: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReviews(ctx, cursor)
}

func (r *reviewRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ride": rideID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews by ride: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReviews(ctx, cursor)
}

func (r *reviewRepository) GetAverageRating(ctx context.Context, revieweeID primitive.ObjectID) (float64, int64, error) {
	if r.cache != nil {
		if average, count, ok := r.cache.GetCachedUserRating(ctx, revieweeID); ok {
			return average, count, nil
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"reviewee": revieweeID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, fmt.Errorf("failed to decode rating aggregate: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, 0, err
	}

	if r.cache != nil {
		r.cache.CacheUserRating(ctx, revieweeID, result.Average, result.Count)
	}

	return result.Average, result.Count, nil
}

func decodeReviews(ctx context.Context, cursor *mongo.Cursor) ([]*models.Review, error) {
	var reviews []*models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, cursor.Err()
}
