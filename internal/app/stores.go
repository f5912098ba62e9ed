package app

import (
	"context"
	"time"

	"edu-quiz-service/internal/domain"
)

// QuizStore persists quizzes and their questions (in-memory, Postgres, etc).
type QuizStore interface {
	// CreateQuiz persists the quiz and its questions atomically, assigning IDs.
	CreateQuiz(ctx context.Context, quiz *domain.Quiz, questions []domain.Question) error
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
	GetQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)
	// FirstPublicByLesson returns the first public quiz attached to a lesson.
	FirstPublicByLesson(ctx context.Context, lessonID int64) (domain.Quiz, error)
	ListPublicByCourse(ctx context.Context, courseID int64) ([]domain.Quiz, error)
	ListByCreator(ctx context.Context, userID int64) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	// DeleteQuiz removes attempts, then questions, then the quiz, atomically.
	DeleteQuiz(ctx context.Context, quizID int64) error
}

// AttemptStore persists scored submissions.
type AttemptStore interface {
	CountAttempts(ctx context.Context, quizID, userID int64) (int, error)
	// InsertAttempt persists one attempt. When maxAttempts is non-nil the
	// limit check and the insert happen as one atomic step; at the limit it
	// returns domain.ErrAttemptLimitExceeded.
	InsertAttempt(ctx context.Context, attempt *domain.Attempt, maxAttempts *int) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Attempt, error)
	// QuizStats reports unique attempting students and their average score.
	QuizStats(ctx context.Context, quizID int64) (domain.AttemptStats, error)
}

// CourseStore reads course, lesson, enrollment and progress data.
type CourseStore interface {
	Lesson(ctx context.Context, lessonID int64) (domain.Lesson, error)
	Course(ctx context.Context, courseID int64) (domain.Course, error)
	// LessonsByCourse returns lessons ordered by ascending OrderIndex.
	LessonsByCourse(ctx context.Context, courseID int64) ([]domain.Lesson, error)
	EnrolledCourseIDs(ctx context.Context, userID int64) ([]int64, error)
	LessonCompleted(ctx context.Context, userID, lessonID int64) (bool, error)
}

// FlashcardStore reads spaced-repetition review state.
type FlashcardStore interface {
	DueCards(ctx context.Context, userID int64, now time.Time) ([]domain.DueCard, error)
	DeckIDByCard(ctx context.Context, flashcardID int64) (int64, error)
	Deck(ctx context.Context, deckID int64) (domain.FlashcardDeck, error)
}

// UserStore resolves caller identities.
type UserStore interface {
	User(ctx context.Context, userID int64) (domain.User, error)
}

// QuestionGenerator is the opaque external authoring service.
type QuestionGenerator interface {
	Generate(ctx context.Context, content string, count int, difficulty domain.Difficulty) ([]domain.GeneratedQuestion, error)
}

// QuizContentSource serves quiz-with-questions reads, possibly through a
// cache. Implementations fall back to the backing store on a miss and must
// honor InvalidateQuizContent after writes.
type QuizContentSource interface {
	QuizContent(ctx context.Context, quizID int64) (domain.Quiz, []domain.Question, error)
	InvalidateQuizContent(ctx context.Context, quizID int64)
}
