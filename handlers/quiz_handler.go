package handlers

import (
	"net/http"
	"strconv"

	"quizforge/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

// CreateQuiz generates and persists a quiz. Works with or without an
// authenticated user; an anonymous quiz has no owner.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ownerID *uint
	if userID, ok := currentUserID(c); ok {
		ownerID = &userID
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), ownerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizId": quiz.ID})
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	quiz, err := h.quizService.GetQuizByID(uint(quizID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}
