package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the principal's
// user id in the gin context under "user_id".
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userIDFromRequest(c, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets "user_id" when a valid token is present
// and lets the request through either way. Used where anonymous access
// is allowed but ownership is recorded when known.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := userIDFromRequest(c, jwtSecret); err == nil {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func userIDFromRequest(c *gin.Context, jwtSecret string) (uint, error) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 8 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return 0, fmt.Errorf("missing or invalid authorization header")
	}

	token, err := jwt.Parse(authHeader[7:], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	return uint(userID), nil
}
