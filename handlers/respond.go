package handlers

import (
	"quizforge/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and a structured
// body. Internal details never leak: only the error kind's message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
}

// currentUserID reads the principal set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}
