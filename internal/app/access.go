package app

import (
	"time"

	"edu-quiz-service/internal/domain"
)

// CanView gates read access to a quiz. Rule order: privileged bypass,
// visibility, deadline. The creator may still review an expired quiz;
// everyone else is turned away once the deadline passes.
func CanView(quiz domain.Quiz, caller domain.User, now time.Time) error {
	if caller.Role.Privileged() {
		return nil
	}
	if !quiz.Public && caller.ID != quiz.CreatedBy {
		return domain.ErrForbidden
	}
	if quizExpired(quiz, now) && caller.ID != quiz.CreatedBy {
		return domain.ErrQuizExpired
	}
	return nil
}

// CanSubmit gates scoring access. Instructors are subject to the same
// deadline and attempt-limit checks as learners on this path; only an
// administrator bypasses them. Whether a creator should be exempt from its
// own deadline is a product decision; until confirmed, it is not.
func CanSubmit(quiz domain.Quiz, caller domain.User, attemptsSoFar int, now time.Time) error {
	if caller.Role.Privileged() {
		return nil
	}
	if !quiz.Public && caller.ID != quiz.CreatedBy {
		return domain.ErrForbidden
	}
	switch DeriveQuizState(quiz, now, attemptsSoFar) {
	case QuizExpired:
		return domain.ErrQuizExpired
	case QuizAttemptExhausted:
		return domain.ErrAttemptLimitExceeded
	}
	return nil
}
