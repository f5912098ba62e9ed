package app

import (
	"math/rand"

	"edu-quiz-service/internal/domain"
)

// QuestionView is the learner-facing shape of a question. It never carries
// the correct-answer tag.
type QuestionView struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	OptionA  string `json:"optionA"`
	OptionB  string `json:"optionB"`
	OptionC  string `json:"optionC"`
	OptionD  string `json:"optionD"`
}

// ShuffleQuestions returns the questions in a fresh uniformly random order
// when shuffle is set, otherwise in stored order. The input slice is never
// mutated; persisted storage is untouched either way.
func ShuffleQuestions(questions []domain.Question, shuffle bool) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	if shuffle {
		rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// ViewQuestion maps the four stored option strings onto the four display
// slots, permuting them uniformly when shuffle is set. Answers are always
// graded against the stored order, so the permutation is display-only.
func ViewQuestion(q domain.Question, shuffle bool) QuestionView {
	options := []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
	if shuffle {
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
	}
	return QuestionView{
		ID:       q.ID,
		Question: q.Text,
		OptionA:  options[0],
		OptionB:  options[1],
		OptionC:  options[2],
		OptionD:  options[3],
	}
}

// ViewQuestions applies both shuffle flags of the quiz to its questions.
func ViewQuestions(quiz domain.Quiz, questions []domain.Question) []QuestionView {
	ordered := ShuffleQuestions(questions, quiz.ShuffleQuestions)
	views := make([]QuestionView, 0, len(ordered))
	for _, q := range ordered {
		views = append(views, ViewQuestion(q, quiz.ShuffleOptions))
	}
	return views
}
