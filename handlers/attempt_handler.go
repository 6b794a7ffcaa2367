package handlers

import (
	"net/http"
	"strconv"

	"quizforge/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
}

func NewAttemptHandler(attemptService *services.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
	}
}

// SubmitAttempt persists a finished play-through for the caller.
// Normally the session service does this automatically; the endpoint
// exists for clients that track the attempt themselves.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	var req services.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.attemptService.SubmitAttempt(uint(quizID), userID, req.Score, req.Responses)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

func (h *AttemptHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	attempts, err := h.attemptService.ListAttempts(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	attemptID, err := strconv.ParseUint(c.Param("attemptId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attempt ID"})
		return
	}

	review, err := h.attemptService.GetAttempt(uint(attemptID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}
