package middleware

import (
	"net/http"
	"strings"

	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthRequired validates the bearer token and sets user context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("is_driver", claims.IsDriver)

		c.Next()
	}
}

// DriverRequired ensures the authenticated user has driver mode enabled.
func DriverRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isDriver, exists := c.Get("is_driver")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
			c.Abort()
			return
		}

		driver, ok := isDriver.(bool)
		if !ok || !driver {
			c.JSON(http.StatusForbidden, gin.H{"error": "Driver access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
