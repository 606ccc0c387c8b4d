package handlers

import (
	"strconv"
	"time"

	"carpool/internal/models"
	"carpool/internal/repositories/interfaces"
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideHandler struct {
	rideService services.RideService
}

func NewRideHandler(rideService services.RideService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
	}
}

// CreateRide publishes a new ride offer for the authenticated driver.
func (h *RideHandler) CreateRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CreateRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride created successfully", ride)
}

// SearchRides lists open rides matching the query filters. Only rides
// still accepting bookings are returned.
func (h *RideHandler) SearchRides(c *gin.Context) {
	filter := &interfaces.RideFilter{
		DepartureCity:   c.Query("departureCity"),
		DestinationCity: c.Query("destinationCity"),
		SortOrder:       c.Query("sortOrder"),
	}

	switch c.Query("sortBy") {
	case "price":
		filter.SortBy = "price"
	case "departureTime":
		filter.SortBy = "departure_time"
	}

	if dateStr := c.Query("departureDate"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid departure date")
			return
		}
		filter.DepartureDate = &date
	}

	if minStr := c.Query("minPrice"); minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid minimum price")
			return
		}
		filter.MinPrice = &min
	}

	if maxStr := c.Query("maxPrice"); maxStr != "" {
		max, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid maximum price")
			return
		}
		filter.MaxPrice = &max
	}

	if seatsStr := c.Query("availableSeats"); seatsStr != "" {
		seats, err := strconv.Atoi(seatsStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid seat count")
			return
		}
		filter.MinSeats = &seats
	}

	params := utils.GetPaginationParams(c)
	filter.Skip = params.GetSkip()
	filter.Limit = params.PageSize

	rides, total, err := h.rideService.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Rides retrieved successfully", rides, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(rides),
	})
}

// GetRide returns one ride with its driver and passengers resolved.
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Ride")
		return
	}

	ride, err := h.rideService.GetByID(c.Request.Context(), rideID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride retrieved successfully", ride)
}

// UpdateRide applies a partial update to a ride the caller owns.
func (h *RideHandler) UpdateRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Ride")
		return
	}

	var request services.UpdateRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.Update(c.Request.Context(), rideID, userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride updated successfully", ride)
}

// DeleteRide removes a ride the caller owns, as long as nobody has a
// confirmed seat on it.
func (h *RideHandler) DeleteRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Ride")
		return
	}

	if err := h.rideService.Delete(c.Request.Context(), rideID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride deleted successfully", nil)
}

// UpdateRideStatus moves a ride the caller owns to a new status.
func (h *RideHandler) UpdateRideStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rideID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Ride")
		return
	}

	var request struct {
		Status models.RideStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	status, err := h.rideService.SetStatus(c.Request.Context(), rideID, userID, request.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride status updated successfully", gin.H{"status": status})
}

// GetMyRidesAsDriver lists rides the authenticated user offers.
func (h *RideHandler) GetMyRidesAsDriver(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rides, err := h.rideService.GetByDriver(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rides retrieved successfully", rides)
}

// GetMyRidesAsPassenger lists rides the authenticated user appears on as
// a passenger.
func (h *RideHandler) GetMyRidesAsPassenger(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rides, err := h.rideService.GetByPassenger(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rides retrieved successfully", rides)
}
