package utils

import "time"

// Application Constants
const (
	AppName    = "Carpool"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTTokenTTL       = 7 * 24 * time.Hour
	PasswordMinLength = 6
	BcryptCost        = 10

	// Ratings
	MinReviewRating = 1
	MaxReviewRating = 5

	// Cache TTLs
	RideCacheTTL   = 5 * time.Minute
	RatingCacheTTL = 10 * time.Minute
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserExists         = "user already exists"
	ErrInvalidToken       = "invalid token"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
)

// Cache Keys
const (
	CacheUserPrefix   = "user:"
	CacheRidePrefix   = "ride:"
	CacheRatingPrefix = "rating:"
)
