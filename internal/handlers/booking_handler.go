package handlers

import (
	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking requests a seat on a ride for the authenticated user.
// The booking starts out pending until the driver acts on it.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CreateBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

// UpdateBookingStatus lets the ride's driver confirm or cancel a booking.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Booking")
		return
	}

	var request struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.bookingService.SetStatus(c.Request.Context(), bookingID, userID, request.Status); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking status updated successfully", gin.H{"status": request.Status})
}

// CancelBooking lets the booking's passenger withdraw.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Booking")
		return
	}

	if err := h.bookingService.Cancel(c.Request.Context(), bookingID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", nil)
}

// GetMyBookings lists the authenticated user's bookings, newest first.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", bookings)
}

// GetRideBookings lists the bookings on a ride for its driver.
func (h *BookingHandler) GetRideBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rideID, err := primitive.ObjectIDFromHex(c.Param("ride_id"))
	if err != nil {
		utils.NotFoundResponse(c, "Ride")
		return
	}

	bookings, err := h.bookingService.GetForRide(c.Request.Context(), rideID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", bookings)
}
