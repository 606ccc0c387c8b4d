package routes

import (
	"carpool/internal/handlers"
	"carpool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReviewRoutes sets up review routes
func SetupReviewRoutes(r *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, jwtSecret string) {
	reviews := r.Group("/reviews")
	{
		// Public review listings
		reviews.GET("/user/:user_id", reviewHandler.GetUserReviews)
		reviews.GET("/ride/:ride_id", reviewHandler.GetRideReviews)

		protected := reviews.Group("")
		protected.Use(middleware.AuthRequired(jwtSecret))
		{
			protected.POST("", reviewHandler.CreateReview)
		}
	}
}
