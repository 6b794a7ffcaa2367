package services

import (
	"errors"
	"strconv"
	"time"

	"quizforge/apperr"
	"quizforge/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptService struct {
	db *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{db: db}
}

type SubmitAttemptRequest struct {
	Score     int               `json:"score"`
	Responses map[string]string `json:"responses"`
}

// AttemptReview is a stored attempt with per-question correctness
// recomputed from the questions. Correctness is never persisted.
type AttemptReview struct {
	ID        uint             `json:"id"`
	QuizID    uint             `json:"quiz_id"`
	Score     int              `json:"score"`
	CreatedAt string           `json:"createdAt"`
	Quiz      *models.Quiz     `json:"quiz"`
	Questions []QuestionReview `json:"questions"`
}

type QuestionReview struct {
	ID             uint     `json:"id"`
	Text           string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"` // resolved option text
	SelectedOption string   `json:"selected_option,omitempty"`
	IsCorrect      bool     `json:"is_correct"`
	Skipped        bool     `json:"skipped"`
}

// AttemptSummary is the history-list projection: quiz metadata only,
// no question content.
type AttemptSummary struct {
	ID        uint   `json:"id"`
	QuizID    uint   `json:"quiz_id"`
	Score     int    `json:"score"`
	CreatedAt string `json:"createdAt"`
	Quiz      struct {
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
		TotalQs    int    `json:"totalQs"`
	} `json:"quiz"`
}

// SubmitAttempt persists one completed play-through. Attempts are
// append-only; there is no update path.
func (s *AttemptService) SubmitAttempt(quizID, userID uint, score int, responses map[string]string) (*models.QuizAttempt, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, apperr.Persistence(err)
	}

	if score < 0 || score > quiz.TotalQs {
		return nil, apperr.Validation("score must be between 0 and %d", quiz.TotalQs)
	}

	if responses == nil {
		responses = map[string]string{}
	}

	attempt := models.QuizAttempt{
		QuizID:    quizID,
		UserID:    userID,
		Score:     score,
		Responses: datatypes.NewJSONType(responses),
	}

	if err := s.db.Create(&attempt).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	return &attempt, nil
}

// GetAttempt returns one attempt with correctness rebuilt question by
// question through the shared answer resolver. Only the owner may read
// an attempt.
func (s *AttemptService) GetAttempt(attemptID, userID uint) (*AttemptReview, error) {
	var attempt models.QuizAttempt
	err := s.db.Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		First(&attempt, attemptID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("attempt not found")
		}
		return nil, apperr.Persistence(err)
	}

	if attempt.UserID != userID {
		return nil, apperr.Forbidden("attempt belongs to another user")
	}

	responses := attempt.Responses.Data()

	review := AttemptReview{
		ID:        attempt.ID,
		QuizID:    attempt.QuizID,
		Score:     attempt.Score,
		CreatedAt: attempt.CreatedAt.Format(time.RFC3339),
		Quiz:      &attempt.Quiz,
		Questions: make([]QuestionReview, 0, len(attempt.Quiz.Questions)),
	}

	for i := range attempt.Quiz.Questions {
		q := &attempt.Quiz.Questions[i]
		correct, _ := q.ResolveAnswer()
		selected, answered := responses[strconv.FormatUint(uint64(q.ID), 10)]

		review.Questions = append(review.Questions, QuestionReview{
			ID:             q.ID,
			Text:           q.Text,
			Options:        q.Options,
			CorrectAnswer:  correct,
			SelectedOption: selected,
			IsCorrect:      answered && selected == correct,
			Skipped:        !answered,
		})
	}

	return &review, nil
}

// ListAttempts returns the caller's attempt history, newest first.
func (s *AttemptService) ListAttempts(userID uint) ([]AttemptSummary, error) {
	var attempts []models.QuizAttempt
	err := s.db.Where("user_id = ?", userID).
		Preload("Quiz").
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	summaries := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		summary := AttemptSummary{
			ID:        a.ID,
			QuizID:    a.QuizID,
			Score:     a.Score,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
		summary.Quiz.Topic = a.Quiz.Topic
		summary.Quiz.Difficulty = a.Quiz.Difficulty
		summary.Quiz.TotalQs = a.Quiz.TotalQs
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
