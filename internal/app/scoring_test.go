package app

import (
	"errors"
	"reflect"
	"testing"

	"edu-quiz-service/internal/domain"
)

func fourQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "Q1", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "A"},
		{ID: 2, Text: "Q2", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "B", Explanation: "because"},
		{ID: 3, Text: "Q3", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "C"},
		{ID: 4, Text: "Q4", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "D"},
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if _, err := Score(nil, map[int64]string{}); !errors.Is(err, domain.ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}

func TestScoreMissingAnswersCountIncorrect(t *testing.T) {
	result, err := Score(fourQuestions(), map[int64]string{1: "A"})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.CorrectCount != 1 || result.Total != 4 {
		t.Fatalf("expected 1/4, got %d/%d", result.CorrectCount, result.Total)
	}
	if result.Percentage != 25 {
		t.Fatalf("expected 25%%, got %v", result.Percentage)
	}
	for _, qr := range result.Breakdown[1:] {
		if qr.Correct || qr.Submitted != "" {
			t.Fatalf("missing answer should be incorrect and empty: %+v", qr)
		}
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	result, err := Score(fourQuestions(), map[int64]string{1: "a", 2: " b ", 3: "C", 4: "d"})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.CorrectCount != 4 {
		t.Fatalf("expected all correct, got %d", result.CorrectCount)
	}
	if result.Message != "excellent" {
		t.Fatalf("expected excellent, got %q", result.Message)
	}
}

func TestScoreIsPure(t *testing.T) {
	questions := fourQuestions()
	answers := map[int64]string{1: "A", 2: "C", 3: "C"}

	first, err := Score(questions, answers)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	second, err := Score(questions, answers)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("grading is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestScoreBreakdownKeepsStoredOrder(t *testing.T) {
	result, err := Score(fourQuestions(), nil)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for i, qr := range result.Breakdown {
		if qr.QuestionID != int64(i+1) {
			t.Fatalf("breakdown out of order at %d: %+v", i, qr)
		}
		if qr.OptionA != "a" || qr.OptionD != "d" {
			t.Fatalf("options must report stored order: %+v", qr)
		}
	}
}

func TestScoreMessageBands(t *testing.T) {
	cases := []struct {
		percentage float64
		message    string
	}{
		{100, "excellent"},
		{90, "excellent"},
		{89.9, "good"},
		{70, "good"},
		{69, "fair"},
		{50, "fair"},
		{49.9, "needs review"},
		{0, "needs review"},
	}
	for _, c := range cases {
		if got := scoreMessage(c.percentage); got != c.message {
			t.Errorf("scoreMessage(%v) = %q, want %q", c.percentage, got, c.message)
		}
	}
}
