package services

import (
	"context"
	"strconv"
	"testing"

	"quizforge/apperr"
	"quizforge/logger"
	"quizforge/models"

	"gorm.io/gorm"
)

func newSessionService(db *gorm.DB) (*SessionService, *MemorySessionStore) {
	store := NewMemorySessionStore()
	attempts := NewAttemptService(db)
	return NewSessionService(db, store, attempts, logger.NewNop()), store
}

func answer(t *testing.T, svc *SessionService, quiz *models.Quiz, userID uint, questionID uint, option string) *AttemptSession {
	t.Helper()
	session, err := svc.SelectOption(context.Background(), quiz.ID, userID, &SelectOptionRequest{
		QuestionID: questionID,
		Option:     option,
	})
	if err != nil {
		t.Fatalf("SelectOption failed: %v", err)
	}
	return session
}

func TestSelectOption_ScoresViaResolver(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSessionService(db)
	quiz := createTestQuiz(t, db,
		capitalQuestion("Capital of France?", "A"),      // letter form resolves to Paris
		capitalQuestion("Capital of Italy?", "Rome"),    // literal form
	)

	if _, err := svc.StartSession(context.Background(), quiz.ID, 1); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	session := answer(t, svc, quiz, 1, quiz.Questions[0].ID, "Paris")
	if session.Score != 1 {
		t.Errorf("score after correct letter-form answer = %d, want 1", session.Score)
	}

	session = answer(t, svc, quiz, 1, quiz.Questions[1].ID, "Berlin")
	if session.Score != 1 {
		t.Errorf("score after wrong answer = %d, want 1", session.Score)
	}
}

func TestSelectOption_WriteOncePerQuestion(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSessionService(db)
	quiz := createTestQuiz(t, db,
		capitalQuestion("Capital of France?", "A"),
		capitalQuestion("Capital of Spain?", "D"),
	)

	if _, err := svc.StartSession(context.Background(), quiz.ID, 1); err != nil {
		t.Fatal(err)
	}

	qID := quiz.Questions[0].ID
	first := answer(t, svc, quiz, 1, qID, "Rome")
	if first.Score != 0 {
		t.Fatalf("score = %d, want 0", first.Score)
	}

	// A second answer for the same question is a no-op, even if correct.
	second := answer(t, svc, quiz, 1, qID, "Paris")
	if second.Score != 0 {
		t.Errorf("re-answer changed score to %d", second.Score)
	}
	key := strconv.FormatUint(uint64(qID), 10)
	if second.Responses[key] != "Rome" {
		t.Errorf("re-answer overwrote recorded response: %q", second.Responses[key])
	}
}

func TestCompletion_SubmitsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSessionService(db)
	quiz := createTestQuiz(t, db,
		capitalQuestion("Capital of France?", "A"),
		capitalQuestion("Capital of Italy?", "Rome"),
	)

	if _, err := svc.StartSession(context.Background(), quiz.ID, 1); err != nil {
		t.Fatal(err)
	}

	answer(t, svc, quiz, 1, quiz.Questions[0].ID, "Paris")
	session := answer(t, svc, quiz, 1, quiz.Questions[1].ID, "Rome")

	if session.Status != StatusSubmitted {
		t.Fatalf("status = %q, want %q", session.Status, StatusSubmitted)
	}
	if session.AttemptID == 0 {
		t.Fatal("expected a recorded attempt id")
	}

	// Re-evaluating completion state must not create another attempt.
	for i := 0; i < 5; i++ {
		answer(t, svc, quiz, 1, quiz.Questions[1].ID, "Rome")
		if _, err := svc.GetSession(context.Background(), quiz.ID, 1); err != nil {
			t.Fatal(err)
		}
	}

	var count int64
	db.Model(&models.QuizAttempt{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one persisted attempt, got %d", count)
	}

	var attempt models.QuizAttempt
	if err := db.First(&attempt).Error; err != nil {
		t.Fatal(err)
	}
	if attempt.Score != 2 {
		t.Errorf("persisted score = %d, want 2", attempt.Score)
	}
}

func TestCompletion_FailedSubmissionStaysUnsynced(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSessionService(db)
	quiz := createTestQuiz(t, db, capitalQuestion("Capital of France?", "A"))

	if _, err := svc.StartSession(context.Background(), quiz.ID, 1); err != nil {
		t.Fatal(err)
	}

	// Soft-delete the quiz so submission fails while the question is
	// still answerable.
	if err := db.Delete(&models.Quiz{}, quiz.ID).Error; err != nil {
		t.Fatal(err)
	}

	session := answer(t, svc, quiz, 1, quiz.Questions[0].ID, "Paris")
	if session.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q (visually complete, unsynced)", session.Status, StatusCompleted)
	}

	var count int64
	db.Model(&models.QuizAttempt{}).Count(&count)
	if count != 0 {
		t.Errorf("failed submission must not persist an attempt, got %d", count)
	}
}

func TestStartSession_EmptyQuizNotReady(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSessionService(db)

	empty := models.Quiz{Topic: "Void", Difficulty: "easy", TotalQs: 3}
	if err := db.Create(&empty).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := svc.StartSession(context.Background(), empty.ID, 1); apperr.Status(err) != 404 {
		t.Errorf("expected not ready for empty quiz, got %v", err)
	}
}

func TestSelectOption_UnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newSessionService(db)
	quiz := createTestQuiz(t, db, capitalQuestion("Capital of France?", "A"))

	if _, err := svc.StartSession(context.Background(), quiz.ID, 1); err != nil {
		t.Fatal(err)
	}

	_, err := svc.SelectOption(context.Background(), quiz.ID, 1, &SelectOptionRequest{
		QuestionID: 9999,
		Option:     "Paris",
	})
	if apperr.Status(err) != 404 {
		t.Errorf("expected not found for question outside the quiz, got %v", err)
	}
}
