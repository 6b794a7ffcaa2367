package models

import (
	"time"

	"gorm.io/gorm"
)

// Quiz is created once by the generation pipeline and immutable after.
// TotalQs records the requested question count; the number of persisted
// questions can be lower if part of a generated batch was dropped.
type Quiz struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Topic      string         `json:"topic" gorm:"not null"`
	Difficulty string         `json:"difficulty" gorm:"not null"` // easy, medium, hard
	TotalQs    int            `json:"totalQs" gorm:"not null"`
	UserID     *uint          `json:"user_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User      *User         `json:"user,omitempty"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Attempts  []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`
}
