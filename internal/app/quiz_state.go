package app

import (
	"time"

	"edu-quiz-service/internal/domain"
)

// QuizState is derived per request from (now, attempt count, deadline,
// max-attempts); it is never stored.
type QuizState string

const (
	QuizActive           QuizState = "ACTIVE"
	QuizExpired          QuizState = "EXPIRED"
	QuizAttemptExhausted QuizState = "ATTEMPT_EXHAUSTED"
)

// DeriveQuizState is the single place deadline and attempt-limit comparisons
// live; every access path goes through it.
func DeriveQuizState(quiz domain.Quiz, now time.Time, attemptsSoFar int) QuizState {
	if quizExpired(quiz, now) {
		return QuizExpired
	}
	if quiz.MaxAttempts != nil && attemptsSoFar >= *quiz.MaxAttempts {
		return QuizAttemptExhausted
	}
	return QuizActive
}

// quizExpired treats now == deadline as expired; a quiz without a deadline
// never expires.
func quizExpired(quiz domain.Quiz, now time.Time) bool {
	if quiz.Deadline == nil {
		return false
	}
	return !now.Before(*quiz.Deadline)
}
