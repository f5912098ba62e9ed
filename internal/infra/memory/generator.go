package memory

import (
	"context"
	"fmt"

	"edu-quiz-service/internal/domain"
)

// StaticGenerator is a canned question generator for demos and tests; it
// stands in when no external generation service is configured.
type StaticGenerator struct {
	Questions []domain.GeneratedQuestion
	Err       error
}

func (g *StaticGenerator) Generate(_ context.Context, content string, count int, difficulty domain.Difficulty) ([]domain.GeneratedQuestion, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	if len(g.Questions) > 0 {
		if count > len(g.Questions) {
			count = len(g.Questions)
		}
		return g.Questions[:count], nil
	}

	out := make([]domain.GeneratedQuestion, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, domain.GeneratedQuestion{
			Question:      fmt.Sprintf("Placeholder question %d (%s)", i+1, difficulty),
			OptionA:       "Option A",
			OptionB:       "Option B",
			OptionC:       "Option C",
			OptionD:       "Option D",
			CorrectAnswer: "A",
			Explanation:   "Placeholder generated without an AI service.",
		})
	}
	return out, nil
}
