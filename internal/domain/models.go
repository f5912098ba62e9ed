package domain

import "time"

// Role is the closed set of caller roles. Access checks switch on it so a
// new role cannot silently bypass a gate.
type Role string

const (
	RoleLearner    Role = "LEARNER"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Privileged reports whether the role bypasses ownership and visibility checks.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

// Teaches reports whether the role authors public quizzes.
func (r Role) Teaches() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// Difficulty of a quiz's questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is one of the three known difficulties.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// User is the resolved caller identity.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Quiz is the persisted quiz configuration. A nil Deadline never expires;
// a nil MaxAttempts is unlimited.
type Quiz struct {
	ID               int64      `json:"id"`
	CourseID         int64      `json:"courseId"`
	LessonID         int64      `json:"lessonId"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Difficulty       Difficulty `json:"difficulty"`
	Public           bool       `json:"isPublic"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	MaxAttempts      *int       `json:"maxAttempts,omitempty"`
	ShuffleQuestions bool       `json:"shuffleQuestions"`
	ShuffleOptions   bool       `json:"shuffleOptions"`
	CreatedBy        int64      `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Question is a four-option MCQ belonging to exactly one quiz.
// CorrectAnswer is one of "A".."D" against the stored option order.
type Question struct {
	ID            int64  `json:"id"`
	QuizID        int64  `json:"quizId"`
	Text          string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// Option returns the stored option text for a letter, or "" for an unknown letter.
func (q Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// Attempt is one scored submission of a quiz by a user.
type Attempt struct {
	ID        int64     `json:"id"`
	QuizID    int64     `json:"quizId"`
	UserID    int64     `json:"userId"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttemptStats aggregates a quiz's attempts across students.
type AttemptStats struct {
	Students     int     `json:"students"`
	AverageScore float64 `json:"averageScore"`
}

// GeneratedQuestion is one tuple returned by the external generation service.
type GeneratedQuestion struct {
	Question      string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Explanation   string
}

// Course groups lessons; enrollment is per (user, course).
type Course struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedBy int64  `json:"createdBy"`
}

// Lesson belongs to a course; OrderIndex fixes the display order.
type Lesson struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"courseId"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
	OrderIndex int    `json:"orderIndex"`
}

// FlashcardDeck groups flashcards owned by a user.
type FlashcardDeck struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"ownerId"`
	Name    string `json:"name"`
}

// DueCard is a flashcard whose next review is due for a user.
type DueCard struct {
	FlashcardID int64     `json:"flashcardId"`
	UserID      int64     `json:"userId"`
	DueAt       time.Time `json:"dueAt"`
}
