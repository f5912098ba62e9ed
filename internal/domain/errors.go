package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrLessonNotFound indicates the referenced lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrCourseNotFound indicates the referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUserNotFound indicates the caller identity could not be resolved.
	ErrUserNotFound = errors.New("user not found")
	// ErrDeckNotFound indicates a flashcard deck could not be resolved.
	ErrDeckNotFound = errors.New("flashcard deck not found")
	// ErrForbidden is returned on visibility or ownership violations.
	ErrForbidden = errors.New("forbidden")
	// ErrQuizExpired is returned when the quiz deadline has passed.
	ErrQuizExpired = errors.New("quiz deadline has passed")
	// ErrAttemptLimitExceeded is returned when the caller has no attempts left.
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	// ErrEmptyQuiz is returned when scoring a quiz with zero questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrGenerationFailed wraps errors from the external question-generation
	// service. It is the only kind that carries an underlying transport error.
	ErrGenerationFailed = errors.New("question generation failed")
	// ErrValidation is returned for malformed create/update payloads.
	ErrValidation = errors.New("validation failed")
)
