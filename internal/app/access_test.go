package app

import (
	"errors"
	"testing"
	"time"

	"edu-quiz-service/internal/domain"
)

var (
	learner    = domain.User{ID: 1, Role: domain.RoleLearner}
	instructor = domain.User{ID: 2, Role: domain.RoleInstructor}
	admin      = domain.User{ID: 3, Role: domain.RoleAdmin}
)

func TestDeriveQuizState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	two := 2

	cases := []struct {
		name     string
		quiz     domain.Quiz
		attempts int
		want     QuizState
	}{
		{"no deadline, no limit", domain.Quiz{}, 5, QuizActive},
		{"future deadline", domain.Quiz{Deadline: &future}, 0, QuizActive},
		{"past deadline", domain.Quiz{Deadline: &past}, 0, QuizExpired},
		{"deadline equals now", domain.Quiz{Deadline: &now}, 0, QuizExpired},
		{"under limit", domain.Quiz{MaxAttempts: &two}, 1, QuizActive},
		{"at limit", domain.Quiz{MaxAttempts: &two}, 2, QuizAttemptExhausted},
		{"expired wins over exhausted", domain.Quiz{Deadline: &past, MaxAttempts: &two}, 2, QuizExpired},
	}
	for _, c := range cases {
		if got := DeriveQuizState(c.quiz, now, c.attempts); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestCanViewPrivateQuiz(t *testing.T) {
	quiz := domain.Quiz{ID: 1, Public: false, CreatedBy: learner.ID}
	now := time.Now()

	if err := CanView(quiz, learner, now); err != nil {
		t.Fatalf("creator should view own private quiz: %v", err)
	}
	if err := CanView(quiz, domain.User{ID: 9, Role: domain.RoleLearner}, now); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if err := CanView(quiz, admin, now); err != nil {
		t.Fatalf("admin bypasses visibility: %v", err)
	}
}

func TestCanViewExpiredQuiz(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	quiz := domain.Quiz{ID: 1, Public: true, CreatedBy: instructor.ID, Deadline: &past}

	if err := CanView(quiz, learner, now); !errors.Is(err, domain.ErrQuizExpired) {
		t.Fatalf("expected ErrQuizExpired, got %v", err)
	}
	// The creator may still review results after the deadline.
	if err := CanView(quiz, instructor, now); err != nil {
		t.Fatalf("creator should view expired quiz: %v", err)
	}
	if err := CanView(quiz, admin, now); err != nil {
		t.Fatalf("admin bypasses deadline: %v", err)
	}
}

func TestCanSubmitDeadlineBindsCreator(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	quiz := domain.Quiz{ID: 1, Public: true, CreatedBy: instructor.ID, Deadline: &past}

	if err := CanSubmit(quiz, instructor, 0, now); !errors.Is(err, domain.ErrQuizExpired) {
		t.Fatalf("creator is not deadline-exempt on submit, got %v", err)
	}
	if err := CanSubmit(quiz, admin, 0, now); err != nil {
		t.Fatalf("admin bypasses deadline on submit: %v", err)
	}
}

func TestCanSubmitAttemptLimit(t *testing.T) {
	one := 1
	quiz := domain.Quiz{ID: 1, Public: true, MaxAttempts: &one}
	now := time.Now()

	if err := CanSubmit(quiz, learner, 0, now); err != nil {
		t.Fatalf("first attempt allowed: %v", err)
	}
	if err := CanSubmit(quiz, learner, 1, now); !errors.Is(err, domain.ErrAttemptLimitExceeded) {
		t.Fatalf("expected ErrAttemptLimitExceeded, got %v", err)
	}
	if err := CanSubmit(quiz, admin, 1, now); err != nil {
		t.Fatalf("admin bypasses attempt limit: %v", err)
	}
}
