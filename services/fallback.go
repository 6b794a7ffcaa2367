package services

import "fmt"

// fallbackQuestions synthesizes placeholder questions when the
// generation service fails or returns garbage. Deterministic and
// offline: same input, same drafts, no failure mode. The question text
// is visibly marked so synthetic content is distinguishable from
// AI-sourced content.
func fallbackQuestions(topic, difficulty string, count int) []questionCandidate {
	drafts := make([]questionCandidate, count)
	for i := 0; i < count; i++ {
		drafts[i] = questionCandidate{
			Question: fmt.Sprintf("[Placeholder] Question %d about %s (%s)", i+1, topic, difficulty),
			Options: []string{
				fmt.Sprintf("Option A for question %d", i+1),
				fmt.Sprintf("Option B for question %d", i+1),
				fmt.Sprintf("Option C for question %d", i+1),
				fmt.Sprintf("Option D for question %d", i+1),
			},
			CorrectAnswer: "A",
		}
	}
	return drafts
}
