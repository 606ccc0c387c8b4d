package services

import (
	"context"
	"time"

	"carpool/internal/models"
	"carpool/internal/utils"
	"carpool/pkg/cache"
	"carpool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CacheService is the cache surface the repositories use. Failures are
// logged and swallowed; the database remains authoritative.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error

	CacheRide(ctx context.Context, ride *models.Ride)
	GetCachedRide(ctx context.Context, rideID primitive.ObjectID) *models.Ride
	InvalidateRide(ctx context.Context, rideID primitive.ObjectID)

	CacheUserRating(ctx context.Context, userID primitive.ObjectID, average float64, count int64)
	GetCachedUserRating(ctx context.Context, userID primitive.ObjectID) (float64, int64, bool)
	InvalidateUserRating(ctx context.Context, userID primitive.ObjectID)
}

// ratingCacheEntry is the cached result of the review rating aggregation.
type ratingCacheEntry struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type cacheService struct {
	redis  *cache.RedisCache
	logger *logger.Logger
}

func NewCacheService(redis *cache.RedisCache, logger *logger.Logger) CacheService {
	return &cacheService{
		redis:  redis,
		logger: logger,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.redis.Get(ctx, key, dest)
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.redis.Set(ctx, key, value, expiration)
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	return s.redis.Delete(ctx, keys...)
}

func (s *cacheService) Exists(ctx context.Context, key string) (bool, error) {
	return s.redis.Exists(ctx, key)
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx)
}

func (s *cacheService) CacheRide(ctx context.Context, ride *models.Ride) {
	key := utils.CacheRidePrefix + ride.ID.Hex()
	if err := s.redis.Set(ctx, key, ride, utils.RideCacheTTL); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Warn("Failed to cache ride")
	}
}

func (s *cacheService) GetCachedRide(ctx context.Context, rideID primitive.ObjectID) *models.Ride {
	key := utils.CacheRidePrefix + rideID.Hex()

	var ride models.Ride
	if err := s.redis.Get(ctx, key, &ride); err != nil {
		if !cache.IsCacheMiss(err) {
			s.logger.WithError(err).WithRideID(rideID).Warn("Failed to read ride cache")
		}
		return nil
	}

	return &ride
}

func (s *cacheService) InvalidateRide(ctx context.Context, rideID primitive.ObjectID) {
	key := utils.CacheRidePrefix + rideID.Hex()
	if err := s.redis.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("Failed to invalidate ride cache")
	}
}

func (s *cacheService) CacheUserRating(ctx context.Context, userID primitive.ObjectID, average float64, count int64) {
	key := utils.CacheRatingPrefix + userID.Hex()
	entry := ratingCacheEntry{Average: average, Count: count}
	if err := s.redis.Set(ctx, key, entry, utils.RatingCacheTTL); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Failed to cache user rating")
	}
}

func (s *cacheService) GetCachedUserRating(ctx context.Context, userID primitive.ObjectID) (float64, int64, bool) {
	key := utils.CacheRatingPrefix + userID.Hex()

	var entry ratingCacheEntry
	if err := s.redis.Get(ctx, key, &entry); err != nil {
		if !cache.IsCacheMiss(err) {
			s.logger.WithError(err).WithUserID(userID).Warn("Failed to read rating cache")
		}
		return 0, 0, false
	}

	return entry.Average, entry.Count, true
}

func (s *cacheService) InvalidateUserRating(ctx context.Context, userID primitive.ObjectID) {
	key := utils.CacheRatingPrefix + userID.Hex()
	if err := s.redis.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Failed to invalidate rating cache")
	}
}
