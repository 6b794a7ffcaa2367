package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestResolveAnswer(t *testing.T) {
	options := datatypes.NewJSONSlice([]string{"Paris", "Rome", "Berlin", "Madrid"})

	tests := []struct {
		name          string
		correctAnswer string
		want          string
		wantOK        bool
	}{
		{"letter A maps to first option", "A", "Paris", true},
		{"letter D maps to last option", "D", "Madrid", true},
		{"literal text returned verbatim", "Rome", "Rome", true},
		{"lowercase letter is literal text", "a", "a", true},
		{"multi-letter string is literal text", "AB", "AB", true},
		{"out-of-range letter surfaces failure", "Z", "Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Options: options, CorrectAnswer: tt.correctAnswer}
			got, ok := q.ResolveAnswer()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveAnswer() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveAnswer_EmptyOptions(t *testing.T) {
	q := Question{CorrectAnswer: "A"}
	got, ok := q.ResolveAnswer()
	if ok {
		t.Errorf("expected resolution failure for letter answer with no options")
	}
	if got != "A" {
		t.Errorf("expected raw value back, got %q", got)
	}
}
