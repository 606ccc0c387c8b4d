package routes

import (
	"carpool/internal/handlers"
	"carpool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes sets up booking ledger routes
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("/user", bookingHandler.GetMyBookings)
		bookings.GET("/ride/:ride_id", bookingHandler.GetRideBookings)
		bookings.PUT("/:id/status", bookingHandler.UpdateBookingStatus)
		bookings.PUT("/:id/cancel", bookingHandler.CancelBooking)
	}
}
