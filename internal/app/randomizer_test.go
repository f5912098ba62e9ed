package app

import (
	"sort"
	"testing"

	"edu-quiz-service/internal/domain"
)

func TestShuffleQuestionsDoesNotMutateInput(t *testing.T) {
	original := fourQuestions()
	_ = ShuffleQuestions(original, true)
	for i, q := range original {
		if q.ID != int64(i+1) {
			t.Fatalf("input slice mutated at %d: %+v", i, q)
		}
	}
}

func TestShuffleQuestionsKeepsMultiset(t *testing.T) {
	original := fourQuestions()
	shuffled := ShuffleQuestions(original, true)
	if len(shuffled) != len(original) {
		t.Fatalf("length changed: %d != %d", len(shuffled), len(original))
	}
	ids := make([]int, 0, len(shuffled))
	for _, q := range shuffled {
		ids = append(ids, int(q.ID))
	}
	sort.Ints(ids)
	for i, id := range ids {
		if id != i+1 {
			t.Fatalf("question set changed: %v", ids)
		}
	}
}

func TestShuffleDisabledKeepsOrder(t *testing.T) {
	out := ShuffleQuestions(fourQuestions(), false)
	for i, q := range out {
		if q.ID != int64(i+1) {
			t.Fatalf("order changed without shuffle at %d: %+v", i, q)
		}
	}
}

func TestViewQuestionKeepsOptionMultiset(t *testing.T) {
	q := domain.Question{ID: 1, Text: "Q", OptionA: "w", OptionB: "x", OptionC: "y", OptionD: "z", CorrectAnswer: "A"}
	view := ViewQuestion(q, true)
	got := []string{view.OptionA, view.OptionB, view.OptionC, view.OptionD}
	sort.Strings(got)
	want := []string{"w", "x", "y", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("option set changed: %v", got)
		}
	}
}

func TestViewQuestionWithoutShuffleKeepsSlots(t *testing.T) {
	q := domain.Question{ID: 1, OptionA: "w", OptionB: "x", OptionC: "y", OptionD: "z", CorrectAnswer: "A"}
	view := ViewQuestion(q, false)
	if view.OptionA != "w" || view.OptionB != "x" || view.OptionC != "y" || view.OptionD != "z" {
		t.Fatalf("slots moved without shuffle: %+v", view)
	}
}
