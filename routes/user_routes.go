package routes

import (
	"carpool/internal/handlers"
	"carpool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up profile routes
func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, jwtSecret string) {
	users := r.Group("/users")
	{
		// Public profile lookup
		users.GET("/:id", userHandler.GetUser)

		// Routes for the authenticated user's own profile
		me := users.Group("")
		me.Use(middleware.AuthRequired(jwtSecret))
		{
			me.GET("/me", userHandler.GetProfile)
			me.PUT("/profile", userHandler.UpdateProfile)
			me.PUT("/toggle-driver", userHandler.ToggleDriver)
		}
	}
}
