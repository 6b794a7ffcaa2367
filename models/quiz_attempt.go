package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt records one completed play-through. Append-only: attempts
// are never updated or deleted. Responses maps question id (as a string
// key) to the option text the user selected; per-question correctness
// is never stored, it is recomputed from the question on every read.
type QuizAttempt struct {
	ID        uint                                  `json:"id" gorm:"primaryKey"`
	QuizID    uint                                  `json:"quiz_id" gorm:"not null"`
	UserID    uint                                  `json:"user_id" gorm:"not null"`
	Score     int                                   `json:"score" gorm:"not null"`
	Responses datatypes.JSONType[map[string]string] `json:"responses"`
	CreatedAt time.Time                             `json:"createdAt"`
	UpdatedAt time.Time                             `json:"-"`
	DeletedAt gorm.DeletedAt                        `json:"-" gorm:"index"`

	// Relationships
	Quiz Quiz `json:"quiz,omitempty"`
	User User `json:"user,omitempty"`
}
