package handlers

import (
	"errors"
	"net/http"

	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondServiceError translates service-layer errors into HTTP responses.
// Ownership failures map to 401, missing resources to 404, business rule
// rejections to 400; anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(verrs))
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "User")
	case errors.Is(err, services.ErrRideNotFound):
		utils.NotFoundResponse(c, "Ride")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.NotFoundResponse(c, "Booking")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, services.ErrNotRideOwner),
		errors.Is(err, services.ErrNotBookingOwner):
		utils.ErrorResponse(c, http.StatusUnauthorized, "NOT_OWNER", err.Error())
	case errors.Is(err, services.ErrReviewerNotParticipant):
		utils.ErrorResponse(c, http.StatusUnauthorized, "NOT_PARTICIPANT", err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrRideNotEditable),
		errors.Is(err, services.ErrRideNotDeletable),
		errors.Is(err, services.ErrRideHasConfirmedPassengers),
		errors.Is(err, services.ErrInvalidRideStatus),
		errors.Is(err, services.ErrRideNotBookable),
		errors.Is(err, services.ErrOwnRideBooking),
		errors.Is(err, services.ErrNoSeatsAvailable),
		errors.Is(err, services.ErrAlreadyBooked),
		errors.Is(err, services.ErrInvalidBookingStatus),
		errors.Is(err, services.ErrBookingAlreadyCancelled),
		errors.Is(err, services.ErrRideNotCompleted),
		errors.Is(err, services.ErrRevieweeNotParticipant),
		errors.Is(err, services.ErrSelfReview),
		errors.Is(err, services.ErrDuplicateReview):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}

// currentUserID pulls the authenticated user's id set by the auth
// middleware. The bool result is false when the request is unauthenticated;
// the 401 has already been written in that case.
func currentUserID(c *gin.Context) (userID primitive.ObjectID, ok bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return userID, false
	}

	id, ok := value.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return userID, false
	}

	return id, true
}
