package services

import (
	"strconv"
	"testing"
	"time"

	"quizforge/apperr"
	"quizforge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSubmitAttempt_AndReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db)
	quiz := createTestQuiz(t, db,
		capitalQuestion("Capital of France?", "A"),
		capitalQuestion("Capital of Italy?", "Rome"),
		capitalQuestion("Capital of Germany?", "C"),
	)

	responses := map[string]string{
		strconv.FormatUint(uint64(quiz.Questions[0].ID), 10): "Paris",  // correct (letter form)
		strconv.FormatUint(uint64(quiz.Questions[1].ID), 10): "Berlin", // wrong
		// third question skipped
	}

	attempt, err := svc.SubmitAttempt(quiz.ID, 7, 1, responses)
	require.NoError(t, err)
	require.NotZero(t, attempt.ID)

	review, err := svc.GetAttempt(attempt.ID, 7)
	require.NoError(t, err)

	require.Len(t, review.Questions, 3)
	assert.Equal(t, 1, review.Score)

	assert.True(t, review.Questions[0].IsCorrect)
	assert.Equal(t, "Paris", review.Questions[0].CorrectAnswer)

	assert.False(t, review.Questions[1].IsCorrect)
	assert.Equal(t, "Berlin", review.Questions[1].SelectedOption)
	assert.Equal(t, "Rome", review.Questions[1].CorrectAnswer)

	assert.True(t, review.Questions[2].Skipped)
	assert.False(t, review.Questions[2].IsCorrect)
	assert.Equal(t, "Berlin", review.Questions[2].CorrectAnswer)
}

func TestGetAttempt_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db)
	quiz := createTestQuiz(t, db, capitalQuestion("Capital of France?", "A"))

	attempt, err := svc.SubmitAttempt(quiz.ID, 1, 1, map[string]string{})
	require.NoError(t, err)

	_, err = svc.GetAttempt(attempt.ID, 2)
	assert.Equal(t, 403, apperr.Status(err), "another user's attempt must be forbidden")

	_, err = svc.GetAttempt(9999, 1)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestSubmitAttempt_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db)
	quiz := createTestQuiz(t, db,
		capitalQuestion("Capital of France?", "A"),
		capitalQuestion("Capital of Italy?", "Rome"),
	)

	_, err := svc.SubmitAttempt(quiz.ID, 1, 3, nil)
	assert.Equal(t, 400, apperr.Status(err), "score above totalQs must be rejected")

	_, err = svc.SubmitAttempt(quiz.ID, 1, -1, nil)
	assert.Equal(t, 400, apperr.Status(err))

	_, err = svc.SubmitAttempt(9999, 1, 0, nil)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestListAttempts_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db)
	quiz := createTestQuiz(t, db, capitalQuestion("Capital of France?", "A"))

	older := models.QuizAttempt{
		QuizID:    quiz.ID,
		UserID:    1,
		Score:     0,
		Responses: datatypes.NewJSONType(map[string]string{}),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)

	newer := models.QuizAttempt{
		QuizID:    quiz.ID,
		UserID:    1,
		Score:     1,
		Responses: datatypes.NewJSONType(map[string]string{}),
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&newer).Error)

	// Someone else's attempt is never listed.
	other := models.QuizAttempt{QuizID: quiz.ID, UserID: 2, Score: 1}
	require.NoError(t, db.Create(&other).Error)

	summaries, err := svc.ListAttempts(1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Equal(t, "European Capitals", summaries[0].Quiz.Topic)
	assert.Equal(t, "easy", summaries[0].Quiz.Difficulty)
	assert.Equal(t, 1, summaries[0].Quiz.TotalQs)
}
