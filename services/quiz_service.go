package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizforge/apperr"
	"quizforge/llm"
	"quizforge/logger"
	"quizforge/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizService runs the generation pipeline: validate input, persist the
// quiz shell, ask the external generation service for questions, and
// persist whatever survives validation. Generation failures are
// absorbed by the fallback synthesizer and never reach the caller.
type QuizService struct {
	db           *gorm.DB
	llm          llm.Client
	log          *logger.Logger
	minQuestions int
	maxQuestions int
}

func NewQuizService(db *gorm.DB, client llm.Client, log *logger.Logger, minQuestions, maxQuestions int) *QuizService {
	return &QuizService{
		db:           db,
		llm:          client,
		log:          log.With("service", "QuizService"),
		minQuestions: minQuestions,
		maxQuestions: maxQuestions,
	}
}

type CreateQuizRequest struct {
	Topic             string `json:"topic" binding:"required"`
	Difficulty        string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	NumberOfQuestions int    `json:"numberOfQuestions" binding:"required"`
}

// questionCandidate is one raw entry from the generation service,
// before structural validation.
type questionCandidate struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type generationResponse struct {
	Questions []questionCandidate `json:"questions"`
}

func (s *QuizService) CreateQuiz(ctx context.Context, userID *uint, req *CreateQuizRequest) (*models.Quiz, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, apperr.Validation("topic must not be empty")
	}
	if req.NumberOfQuestions < s.minQuestions || req.NumberOfQuestions > s.maxQuestions {
		return nil, apperr.Validation("numberOfQuestions must be between %d and %d", s.minQuestions, s.maxQuestions)
	}
	switch req.Difficulty {
	case "easy", "medium", "hard":
	default:
		return nil, apperr.Validation("difficulty must be easy, medium, or hard")
	}

	// Persist the quiz first so questions have a stable id to attach
	// to, whatever the generation call does.
	quiz := models.Quiz{
		Topic:      topic,
		Difficulty: req.Difficulty,
		TotalQs:    req.NumberOfQuestions,
		UserID:     userID,
	}

	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	candidates := s.generateQuestions(ctx, topic, req.Difficulty, req.NumberOfQuestions)

	saved := 0
	for _, c := range candidates {
		if c.Question == "" || len(c.Options) == 0 || c.CorrectAnswer == "" {
			s.log.Warn("dropping invalid generated question", "quiz_id", quiz.ID)
			continue
		}

		question := models.Question{
			QuizID:        quiz.ID,
			Text:          c.Question,
			Options:       datatypes.NewJSONSlice(c.Options),
			CorrectAnswer: c.CorrectAnswer,
		}

		// Each question is an independent write. A failed one is
		// skipped, not retried, and does not abort the batch.
		if err := s.db.Create(&question).Error; err != nil {
			s.log.Error("failed to persist question", "quiz_id", quiz.ID, "error", err)
			continue
		}
		saved++
	}

	s.log.Info("quiz created", "quiz_id", quiz.ID, "requested", req.NumberOfQuestions, "saved", saved)
	return &quiz, nil
}

// generateQuestions calls the generation service and validates its
// output. Any failure along the way (transport, malformed JSON, wrong
// shape, nothing usable) falls back to synthesized placeholders, so
// this never fails.
func (s *QuizService) generateQuestions(ctx context.Context, topic, difficulty string, count int) []questionCandidate {
	content, err := s.llm.GenerateText(ctx, buildPrompt(topic, difficulty, count))
	if err != nil {
		s.log.Warn("generation call failed, using fallback questions", "topic", topic, "error", err)
		return fallbackQuestions(topic, difficulty, count)
	}

	var parsed generationResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.log.Warn("generation response is not valid JSON, using fallback questions", "topic", topic, "error", err)
		return fallbackQuestions(topic, difficulty, count)
	}

	if len(parsed.Questions) == 0 {
		s.log.Warn("generation response has no questions, using fallback questions", "topic", topic)
		return fallbackQuestions(topic, difficulty, count)
	}

	usable := 0
	for _, c := range parsed.Questions {
		if c.Question != "" && len(c.Options) > 0 && c.CorrectAnswer != "" {
			usable++
		}
	}
	if usable == 0 {
		s.log.Warn("no usable questions in generation response, using fallback questions", "topic", topic)
		return fallbackQuestions(topic, difficulty, count)
	}

	return parsed.Questions
}

func buildPrompt(topic, difficulty string, count int) string {
	return fmt.Sprintf(`You are an API that returns ONLY valid JSON.
Do NOT include markdown.
Do NOT include backticks.

Return EXACTLY this structure:

{
  "questions": [
    {
      "question": "string",
      "options": ["A", "B", "C", "D"],
      "correctAnswer": "A"
    }
  ]
}

Topic: %s
Difficulty: %s
Number of questions: %d
`, topic, difficulty, count)
}

// GetQuizByID returns a quiz with its questions. A quiz that ended up
// with zero persisted questions is a failed generation and is reported
// as not found rather than served empty.
func (s *QuizService) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id")
	}).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, apperr.Persistence(err)
	}

	if len(quiz.Questions) == 0 {
		return nil, apperr.NotFound("quiz is not ready")
	}

	return &quiz, nil
}
