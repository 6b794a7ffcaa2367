package services

import (
	"context"
	"testing"

	"quizforge/models"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizAttempt{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestQuiz(t *testing.T, db *gorm.DB, questions ...models.Question) *models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		Topic:      "European Capitals",
		Difficulty: "easy",
		TotalQs:    len(questions),
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}

	for i := range questions {
		questions[i].QuizID = quiz.ID
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("failed to create question: %v", err)
		}
	}

	quiz.Questions = questions
	return &quiz
}

func capitalQuestion(text, correctAnswer string) models.Question {
	return models.Question{
		Text:          text,
		Options:       datatypes.NewJSONSlice([]string{"Paris", "Rome", "Berlin", "Madrid"}),
		CorrectAnswer: correctAnswer,
	}
}

// fakeLLM is a canned generation service.
type fakeLLM struct {
	content string
	err     error
	calls   int
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}
