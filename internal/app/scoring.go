package app

import (
	"strings"

	"edu-quiz-service/internal/domain"
)

// QuestionResult is the per-question feedback attached to a scored attempt.
// Options are reported in stored order regardless of any display shuffle.
type QuestionResult struct {
	QuestionID    int64  `json:"questionId"`
	Question      string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	Submitted     string `json:"submitted,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// ScoreResult summarizes one grading pass.
type ScoreResult struct {
	CorrectCount int              `json:"correctAnswers"`
	Total        int              `json:"totalQuestions"`
	Percentage   float64          `json:"score"`
	Message      string           `json:"message"`
	Breakdown    []QuestionResult `json:"breakdown"`
}

// Score grades submitted answers against stored questions. Comparison is a
// case-insensitive single-letter match; a missing answer counts as incorrect.
// Grading is pure: identical input yields identical output.
func Score(questions []domain.Question, answers map[int64]string) (ScoreResult, error) {
	if len(questions) == 0 {
		return ScoreResult{}, domain.ErrEmptyQuiz
	}

	result := ScoreResult{
		Total:     len(questions),
		Breakdown: make([]QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		submitted := strings.ToUpper(strings.TrimSpace(answers[q.ID]))
		correct := submitted != "" && submitted == strings.ToUpper(q.CorrectAnswer)
		if correct {
			result.CorrectCount++
		}
		result.Breakdown = append(result.Breakdown, QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Text,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			Submitted:     submitted,
			CorrectAnswer: strings.ToUpper(q.CorrectAnswer),
			Correct:       correct,
			Explanation:   q.Explanation,
		})
	}

	result.Percentage = 100 * float64(result.CorrectCount) / float64(result.Total)
	result.Message = scoreMessage(result.Percentage)
	return result, nil
}

// scoreMessage maps a percentage onto the four qualitative bands.
func scoreMessage(percentage float64) string {
	switch {
	case percentage >= 90:
		return "excellent"
	case percentage >= 70:
		return "good"
	case percentage >= 50:
		return "fair"
	default:
		return "needs review"
	}
}
