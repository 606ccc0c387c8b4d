package handlers

import (
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview records a review for a fellow participant of a completed
// ride and refreshes the reviewee's aggregate rating.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Review created successfully", review)
}

// GetUserReviews lists the reviews received by a user, newest first.
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	reviews, err := h.reviewService.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Reviews retrieved successfully", reviews)
}

// GetRideReviews lists the reviews attached to a ride, newest first.
func (h *ReviewHandler) GetRideReviews(c *gin.Context) {
	rideID, err := primitive.ObjectIDFromHex(c.Param("ride_id"))
	if err != nil {
		utils.NotFoundResponse(c, "Ride")
		return
	}

	reviews, err := h.reviewService.GetForRide(c.Request.Context(), rideID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Reviews retrieved successfully", reviews)
}
