package handlers

import (
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile returns the authenticated user's own profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

// GetUser returns a public view of any user by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

// UpdateProfile applies a partial update to the authenticated user's
// profile. Empty fields are left untouched.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}

// ToggleDriver flips the authenticated user's driver flag.
func (h *UserHandler) ToggleDriver(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	isDriver, err := h.userService.ToggleDriver(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver mode updated successfully", gin.H{"is_driver": isDriver})
}
