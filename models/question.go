package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	QuizID        uint                        `json:"quiz_id" gorm:"not null"`
	Text          string                      `json:"question" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectAnswer string                      `json:"correctAnswer" gorm:"not null"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `json:"-" gorm:"index"`

	// Relationships
	Quiz Quiz `json:"quiz,omitempty"`
}

// ResolveAnswer maps the stored correct-answer field to canonical option
// text. A single uppercase letter is an index into Options ('A' = 0);
// anything else is already literal option text. This is the only place
// that decodes the letter form: live scoring and history review both go
// through it.
//
// Returns ok=false when a letter points outside Options. The raw value
// is returned unchanged in that case so callers can log the anomaly
// instead of crashing on bad data.
func (q *Question) ResolveAnswer() (string, bool) {
	if len(q.CorrectAnswer) == 1 && q.CorrectAnswer[0] >= 'A' && q.CorrectAnswer[0] <= 'Z' {
		index := int(q.CorrectAnswer[0] - 'A')
		if index >= len(q.Options) {
			return q.CorrectAnswer, false
		}
		return q.Options[index], true
	}
	return q.CorrectAnswer, true
}
