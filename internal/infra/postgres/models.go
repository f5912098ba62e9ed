package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"edu-quiz-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID               int64      `bun:"id,pk,autoincrement"`
	CourseID         int64      `bun:"course_id"`
	LessonID         int64      `bun:"lesson_id"`
	Title            string     `bun:"title"`
	Description      string     `bun:"description"`
	Difficulty       string     `bun:"difficulty"`
	IsPublic         bool       `bun:"is_public"`
	Deadline         *time.Time `bun:"deadline"`
	MaxAttempts      *int       `bun:"max_attempts"`
	ShuffleQuestions bool       `bun:"shuffle_questions"`
	ShuffleOptions   bool       `bun:"shuffle_options"`
	CreatedBy        int64      `bun:"created_by"`
	CreatedAt        time.Time  `bun:"created_at"`
}

func (r quizRow) toDomain() domain.Quiz {
	return domain.Quiz{
		ID:               r.ID,
		CourseID:         r.CourseID,
		LessonID:         r.LessonID,
		Title:            r.Title,
		Description:      r.Description,
		Difficulty:       domain.Difficulty(r.Difficulty),
		Public:           r.IsPublic,
		Deadline:         r.Deadline,
		MaxAttempts:      r.MaxAttempts,
		ShuffleQuestions: r.ShuffleQuestions,
		ShuffleOptions:   r.ShuffleOptions,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}

func quizRowFrom(q domain.Quiz) quizRow {
	return quizRow{
		ID:               q.ID,
		CourseID:         q.CourseID,
		LessonID:         q.LessonID,
		Title:            q.Title,
		Description:      q.Description,
		Difficulty:       string(q.Difficulty),
		IsPublic:         q.Public,
		Deadline:         q.Deadline,
		MaxAttempts:      q.MaxAttempts,
		ShuffleQuestions: q.ShuffleQuestions,
		ShuffleOptions:   q.ShuffleOptions,
		CreatedBy:        q.CreatedBy,
		CreatedAt:        q.CreatedAt,
	}
}

type questionRow struct {
	bun.BaseModel `bun:"table:quiz_questions,alias:qq"`

	ID            int64  `bun:"id,pk,autoincrement"`
	QuizID        int64  `bun:"quiz_id"`
	Question      string `bun:"question"`
	OptionA       string `bun:"option_a"`
	OptionB       string `bun:"option_b"`
	OptionC       string `bun:"option_c"`
	OptionD       string `bun:"option_d"`
	CorrectAnswer string `bun:"correct_answer"`
	Explanation   string `bun:"explanation"`
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:            r.ID,
		QuizID:        r.QuizID,
		Text:          r.Question,
		OptionA:       r.OptionA,
		OptionB:       r.OptionB,
		OptionC:       r.OptionC,
		OptionD:       r.OptionD,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}
}

func questionRowFrom(q domain.Question) questionRow {
	return questionRow{
		ID:            q.ID,
		QuizID:        q.QuizID,
		Question:      q.Text,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts,alias:qa"`

	ID        int64     `bun:"id,pk,autoincrement"`
	QuizID    int64     `bun:"quiz_id"`
	UserID    int64     `bun:"user_id"`
	Score     float64   `bun:"score"`
	CreatedAt time.Time `bun:"created_at"`
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:        r.ID,
		QuizID:    r.QuizID,
		UserID:    r.UserID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name"`
	Role string `bun:"role"`
}

type courseRow struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID        int64  `bun:"id,pk,autoincrement"`
	Title     string `bun:"title"`
	CreatedBy int64  `bun:"created_by"`
}

type lessonRow struct {
	bun.BaseModel `bun:"table:lessons,alias:l"`

	ID         int64  `bun:"id,pk,autoincrement"`
	CourseID   int64  `bun:"course_id"`
	Title      string `bun:"title"`
	Content    string `bun:"content"`
	OrderIndex int    `bun:"order_index"`
}

type enrollmentRow struct {
	bun.BaseModel `bun:"table:course_enrollments,alias:ce"`

	UserID   int64 `bun:"user_id"`
	CourseID int64 `bun:"course_id"`
}

type progressRow struct {
	bun.BaseModel `bun:"table:lesson_progress,alias:lp"`

	UserID    int64 `bun:"user_id"`
	LessonID  int64 `bun:"lesson_id"`
	Completed bool  `bun:"completed"`
}

type deckRow struct {
	bun.BaseModel `bun:"table:flashcard_decks,alias:fd"`

	ID      int64  `bun:"id,pk,autoincrement"`
	OwnerID int64  `bun:"owner_id"`
	Name    string `bun:"name"`
}

type flashcardRow struct {
	bun.BaseModel `bun:"table:flashcards,alias:f"`

	ID     int64 `bun:"id,pk,autoincrement"`
	DeckID int64 `bun:"deck_id"`
}

type reviewRow struct {
	bun.BaseModel `bun:"table:flashcard_reviews,alias:fr"`

	FlashcardID int64     `bun:"flashcard_id"`
	UserID      int64     `bun:"user_id"`
	DueAt       time.Time `bun:"due_at"`
}
