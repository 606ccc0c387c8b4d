package routes

import (
	"carpool/internal/handlers"
	"carpool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes sets up ride catalog routes
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, jwtSecret string) {
	rides := r.Group("/rides")
	{
		// Public search and detail
		rides.GET("", rideHandler.SearchRides)
		rides.GET("/:id", rideHandler.GetRide)

		// Protected ride management
		protected := rides.Group("")
		protected.Use(middleware.AuthRequired(jwtSecret))
		{
			protected.POST("", middleware.DriverRequired(), rideHandler.CreateRide)
			protected.PUT("/:id", rideHandler.UpdateRide)
			protected.DELETE("/:id", rideHandler.DeleteRide)
			protected.PUT("/:id/status", rideHandler.UpdateRideStatus)

			protected.GET("/user/driver", rideHandler.GetMyRidesAsDriver)
			protected.GET("/user/passenger", rideHandler.GetMyRidesAsPassenger)
		}
	}
}
