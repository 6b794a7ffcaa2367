package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"quizforge/apperr"
	"quizforge/logger"
	"quizforge/models"

	"gorm.io/gorm"
)

// Session status values. The status is explicit state, not derived from
// the answer count: StatusSubmitted is the guard that keeps repeated
// completion checks from creating a second attempt.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSubmitted  = "submitted"
)

// AttemptSession is one user's in-flight play-through of a quiz.
type AttemptSession struct {
	QuizID         uint              `json:"quiz_id"`
	UserID         uint              `json:"user_id"`
	TotalQuestions int               `json:"total_questions"`
	Score          int               `json:"score"`
	Responses      map[string]string `json:"responses"` // question id -> selected option text
	Status         string            `json:"status"`
	AttemptID      uint              `json:"attempt_id,omitempty"`
}

// SessionService scores answers as they arrive and submits the attempt
// exactly once when the last question is answered.
type SessionService struct {
	db       *gorm.DB
	store    SessionStore
	attempts *AttemptService
	log      *logger.Logger
}

func NewSessionService(db *gorm.DB, store SessionStore, attempts *AttemptService, log *logger.Logger) *SessionService {
	return &SessionService{
		db:       db,
		store:    store,
		attempts: attempts,
		log:      log.With("service", "SessionService"),
	}
}

type SelectOptionRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

func sessionKey(quizID, userID uint) string {
	return fmt.Sprintf("%d:%d", quizID, userID)
}

// StartSession creates a fresh session for the quiz, replacing any
// previous unfinished one.
func (s *SessionService) StartSession(ctx context.Context, quizID, userID uint) (*AttemptSession, error) {
	var quiz models.Quiz
	if err := s.db.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, apperr.Persistence(err)
	}

	if len(quiz.Questions) == 0 {
		return nil, apperr.NotFound("quiz is not ready")
	}

	session := &AttemptSession{
		QuizID:         quizID,
		UserID:         userID,
		TotalQuestions: len(quiz.Questions),
		Responses:      map[string]string{},
		Status:         StatusInProgress,
	}

	if err := s.store.Put(ctx, sessionKey(quizID, userID), session); err != nil {
		return nil, apperr.Persistence(err)
	}

	return session, nil
}

func (s *SessionService) GetSession(ctx context.Context, quizID, userID uint) (*AttemptSession, error) {
	session, err := s.store.Get(ctx, sessionKey(quizID, userID))
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if session == nil {
		return nil, apperr.NotFound("no active session for this quiz")
	}
	return session, nil
}

// SelectOption records an answer. Answers are write-once per question:
// a second answer for the same question is a no-op and leaves score and
// responses untouched. When the last question is answered the attempt
// is submitted exactly once; a failed submission leaves the session
// completed but unsynced and is not retried here.
func (s *SessionService) SelectOption(ctx context.Context, quizID, userID uint, req *SelectOptionRequest) (*AttemptSession, error) {
	session, err := s.GetSession(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	questionKey := strconv.FormatUint(uint64(req.QuestionID), 10)
	if _, answered := session.Responses[questionKey]; answered {
		return session, nil
	}

	var question models.Question
	if err := s.db.Where("id = ? AND quiz_id = ?", req.QuestionID, quizID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, apperr.Persistence(err)
	}

	correct, ok := question.ResolveAnswer()
	if !ok {
		s.log.Warn("correct answer letter is out of range", "question_id", question.ID, "correct_answer", question.CorrectAnswer)
	}
	if req.Option == correct {
		session.Score++
	}
	session.Responses[questionKey] = req.Option

	if session.Status == StatusInProgress && len(session.Responses) == session.TotalQuestions {
		session.Status = StatusCompleted
	}

	s.maybeSubmit(session)

	if err := s.store.Put(ctx, sessionKey(quizID, userID), session); err != nil {
		return nil, apperr.Persistence(err)
	}

	return session, nil
}

// maybeSubmit submits a completed session. Safe to call on every state
// change: only the completed->submitted transition does anything.
func (s *SessionService) maybeSubmit(session *AttemptSession) {
	if session.Status != StatusCompleted {
		return
	}

	attempt, err := s.attempts.SubmitAttempt(session.QuizID, session.UserID, session.Score, session.Responses)
	if err != nil {
		s.log.Error("attempt submission failed, session left unsynced",
			"quiz_id", session.QuizID, "user_id", session.UserID, "error", err)
		return
	}

	session.Status = StatusSubmitted
	session.AttemptID = attempt.ID
}
