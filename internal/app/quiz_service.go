package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edu-quiz-service/internal/domain"
)

// QuizService contains the quiz lifecycle use cases: generate, create,
// fetch, submit, update, publish and delete.
type QuizService struct {
	quizzes   QuizStore
	attempts  AttemptStore
	courses   CourseStore
	content   QuizContentSource
	generator QuestionGenerator
	now       func() time.Time
}

func NewQuizService(quizzes QuizStore, attempts AttemptStore, courses CourseStore, content QuizContentSource, generator QuestionGenerator) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		attempts:  attempts,
		courses:   courses,
		content:   content,
		generator: generator,
		now:       time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// QuizDetail is the creator-facing shape: full questions, answers included.
type QuizDetail struct {
	Quiz      domain.Quiz       `json:"quiz"`
	Questions []domain.Question `json:"questions"`
}

// QuizView is the caller-facing shape returned by Fetch: shuffled per
// request, correct answers withheld, attempt budget attached.
type QuizView struct {
	Quiz           domain.Quiz    `json:"quiz"`
	Questions      []QuestionView `json:"questions"`
	AttemptsSoFar  int            `json:"attemptsSoFar"`
	CanAttemptMore bool           `json:"canAttemptMore"`
	State          QuizState      `json:"state"`
}

// SubmitResult is the full grading breakdown plus the attempt number this
// submission became.
type SubmitResult struct {
	QuizID        int64 `json:"quizId"`
	AttemptNumber int   `json:"attemptNumber"`
	ScoreResult
}

// QuestionInput is one manually authored question.
type QuestionInput struct {
	Question      string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// CreateQuizInput carries the fields of a manual create.
type CreateQuizInput struct {
	LessonID         int64             `json:"lessonId"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	Deadline         *time.Time        `json:"deadline"`
	MaxAttempts      *int              `json:"maxAttempts"`
	ShuffleQuestions bool              `json:"shuffleQuestions"`
	ShuffleOptions   bool              `json:"shuffleOptions"`
	Questions        []QuestionInput   `json:"questions"`
}

// QuizUpdate is a partial update; nil fields stay unchanged.
type QuizUpdate struct {
	Title            *string            `json:"title"`
	Description      *string            `json:"description"`
	Difficulty       *domain.Difficulty `json:"difficulty"`
	Deadline         *time.Time         `json:"deadline"`
	MaxAttempts      *int               `json:"maxAttempts"`
	ShuffleQuestions *bool              `json:"shuffleQuestions"`
	ShuffleOptions   *bool              `json:"shuffleOptions"`
}

// Generate delegates authoring to the external generation service, then
// persists quiz and questions in one step. A generator failure aborts the
// operation before anything is written.
func (s *QuizService) Generate(ctx context.Context, caller domain.User, lessonID int64, difficulty domain.Difficulty, count int) (QuizDetail, error) {
	if !difficulty.Valid() {
		return QuizDetail{}, fmt.Errorf("%w: unknown difficulty %q", domain.ErrValidation, difficulty)
	}
	if count <= 0 {
		count = 10
	}

	lesson, err := s.courses.Lesson(ctx, lessonID)
	if err != nil {
		return QuizDetail{}, err
	}

	generated, err := s.generator.Generate(ctx, lesson.Content, count, difficulty)
	if err != nil {
		return QuizDetail{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if len(generated) == 0 {
		return QuizDetail{}, fmt.Errorf("%w: service returned no questions", domain.ErrGenerationFailed)
	}

	quiz := domain.Quiz{
		CourseID:   lesson.CourseID,
		LessonID:   lesson.ID,
		Title:      fmt.Sprintf("Generated quiz: %s (%s)", lesson.Title, difficulty),
		Difficulty: difficulty,
		Public:     caller.Role.Teaches(),
		CreatedBy:  caller.ID,
		CreatedAt:  s.now(),
	}
	questions := make([]domain.Question, 0, len(generated))
	for i, g := range generated {
		correct := strings.ToUpper(strings.TrimSpace(g.CorrectAnswer))
		if !validLetter(correct) {
			return QuizDetail{}, fmt.Errorf("%w: question %d has correct answer %q", domain.ErrGenerationFailed, i+1, g.CorrectAnswer)
		}
		questions = append(questions, domain.Question{
			Text:          g.Question,
			OptionA:       g.OptionA,
			OptionB:       g.OptionB,
			OptionC:       g.OptionC,
			OptionD:       g.OptionD,
			CorrectAnswer: correct,
			Explanation:   g.Explanation,
		})
	}

	if err := s.quizzes.CreateQuiz(ctx, &quiz, questions); err != nil {
		return QuizDetail{}, err
	}
	return QuizDetail{Quiz: quiz, Questions: questions}, nil
}

// CreateManual persists an authored quiz after validating its questions.
func (s *QuizService) CreateManual(ctx context.Context, caller domain.User, input CreateQuizInput) (QuizDetail, error) {
	if strings.TrimSpace(input.Title) == "" {
		return QuizDetail{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(input.Questions) == 0 {
		return QuizDetail{}, fmt.Errorf("%w: at least one question is required", domain.ErrValidation)
	}
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}
	if !difficulty.Valid() {
		return QuizDetail{}, fmt.Errorf("%w: unknown difficulty %q", domain.ErrValidation, input.Difficulty)
	}
	if input.MaxAttempts != nil && *input.MaxAttempts < 1 {
		return QuizDetail{}, fmt.Errorf("%w: maxAttempts must be at least 1", domain.ErrValidation)
	}

	lesson, err := s.courses.Lesson(ctx, input.LessonID)
	if err != nil {
		return QuizDetail{}, err
	}

	questions := make([]domain.Question, 0, len(input.Questions))
	for i, in := range input.Questions {
		q, err := questionFromInput(in, i+1)
		if err != nil {
			return QuizDetail{}, err
		}
		questions = append(questions, q)
	}

	quiz := domain.Quiz{
		CourseID:         lesson.CourseID,
		LessonID:         lesson.ID,
		Title:            input.Title,
		Description:      input.Description,
		Difficulty:       difficulty,
		Public:           caller.Role.Teaches(),
		Deadline:         input.Deadline,
		MaxAttempts:      input.MaxAttempts,
		ShuffleQuestions: input.ShuffleQuestions,
		ShuffleOptions:   input.ShuffleOptions,
		CreatedBy:        caller.ID,
		CreatedAt:        s.now(),
	}
	if err := s.quizzes.CreateQuiz(ctx, &quiz, questions); err != nil {
		return QuizDetail{}, err
	}
	return QuizDetail{Quiz: quiz, Questions: questions}, nil
}

// Fetch returns a quiz view for the caller: access-checked, shuffled per
// request, with the caller's remaining attempt budget.
func (s *QuizService) Fetch(ctx context.Context, caller domain.User, quizID int64) (QuizView, error) {
	quiz, questions, err := s.content.QuizContent(ctx, quizID)
	if err != nil {
		return QuizView{}, err
	}
	now := s.now()
	if err := CanView(quiz, caller, now); err != nil {
		return QuizView{}, err
	}

	attempts, err := s.attempts.CountAttempts(ctx, quizID, caller.ID)
	if err != nil {
		return QuizView{}, err
	}
	state := DeriveQuizState(quiz, now, attempts)
	return QuizView{
		Quiz:           quiz,
		Questions:      ViewQuestions(quiz, questions),
		AttemptsSoFar:  attempts,
		CanAttemptMore: state == QuizActive,
		State:          state,
	}, nil
}

// FetchByLesson resolves the first public quiz of a lesson and returns it as
// a caller view.
func (s *QuizService) FetchByLesson(ctx context.Context, caller domain.User, lessonID int64) (QuizView, error) {
	quiz, err := s.quizzes.FirstPublicByLesson(ctx, lessonID)
	if err != nil {
		return QuizView{}, err
	}
	return s.Fetch(ctx, caller, quiz.ID)
}

// QuizSummary is a course-listing entry: the quiz plus its question count.
type QuizSummary struct {
	domain.Quiz
	QuestionCount int `json:"questionCount"`
}

// ListByCourse returns the public quizzes of a course with question counts.
func (s *QuizService) ListByCourse(ctx context.Context, courseID int64) ([]QuizSummary, error) {
	quizzes, err := s.quizzes.ListPublicByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		questions, err := s.quizzes.GetQuestions(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, QuizSummary{Quiz: quiz, QuestionCount: len(questions)})
	}
	return summaries, nil
}

// Submit grades the caller's answers, persists the attempt, and returns the
// full breakdown. The attempt-limit check and the insert are one atomic step
// in the store, so concurrent submissions cannot overshoot the budget.
func (s *QuizService) Submit(ctx context.Context, caller domain.User, quizID int64, answers map[int64]string) (SubmitResult, error) {
	quiz, questions, err := s.content.QuizContent(ctx, quizID)
	if err != nil {
		return SubmitResult{}, err
	}
	now := s.now()

	attempts, err := s.attempts.CountAttempts(ctx, quizID, caller.ID)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := CanSubmit(quiz, caller, attempts, now); err != nil {
		return SubmitResult{}, err
	}

	scored, err := Score(questions, answers)
	if err != nil {
		return SubmitResult{}, err
	}

	attempt := domain.Attempt{
		QuizID:    quizID,
		UserID:    caller.ID,
		Score:     scored.Percentage,
		CreatedAt: now,
	}
	if err := s.attempts.InsertAttempt(ctx, &attempt, quiz.MaxAttempts); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{
		QuizID:        quizID,
		AttemptNumber: attempts + 1,
		ScoreResult:   scored,
	}, nil
}

// Update applies a partial update. Creator or privileged role only.
func (s *QuizService) Update(ctx context.Context, caller domain.User, quizID int64, update QuizUpdate) (QuizDetail, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return QuizDetail{}, err
	}
	if err := requireOwner(quiz, caller); err != nil {
		return QuizDetail{}, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return QuizDetail{}, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		quiz.Title = *update.Title
	}
	if update.Description != nil {
		quiz.Description = *update.Description
	}
	if update.Difficulty != nil {
		if !update.Difficulty.Valid() {
			return QuizDetail{}, fmt.Errorf("%w: unknown difficulty %q", domain.ErrValidation, *update.Difficulty)
		}
		quiz.Difficulty = *update.Difficulty
	}
	if update.Deadline != nil {
		quiz.Deadline = update.Deadline
	}
	if update.MaxAttempts != nil {
		if *update.MaxAttempts < 1 {
			return QuizDetail{}, fmt.Errorf("%w: maxAttempts must be at least 1", domain.ErrValidation)
		}
		quiz.MaxAttempts = update.MaxAttempts
	}
	if update.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *update.ShuffleQuestions
	}
	if update.ShuffleOptions != nil {
		quiz.ShuffleOptions = *update.ShuffleOptions
	}

	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return QuizDetail{}, err
	}
	s.content.InvalidateQuizContent(ctx, quizID)

	questions, err := s.quizzes.GetQuestions(ctx, quizID)
	if err != nil {
		return QuizDetail{}, err
	}
	return QuizDetail{Quiz: quiz, Questions: questions}, nil
}

// Publish flips a quiz public so enrolled learners can discover it.
func (s *QuizService) Publish(ctx context.Context, caller domain.User, quizID int64) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := requireOwner(quiz, caller); err != nil {
		return domain.Quiz{}, err
	}
	if quiz.Public {
		return quiz, nil
	}
	quiz.Public = true
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.content.InvalidateQuizContent(ctx, quizID)
	return quiz, nil
}

// Delete cascades results, then questions, then the quiz itself.
func (s *QuizService) Delete(ctx context.Context, caller domain.User, quizID int64) error {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := requireOwner(quiz, caller); err != nil {
		return err
	}
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	s.content.InvalidateQuizContent(ctx, quizID)
	return nil
}

// MyResults lists the caller's attempts, newest first.
func (s *QuizService) MyResults(ctx context.Context, caller domain.User) ([]domain.Attempt, error) {
	return s.attempts.ListByUser(ctx, caller.ID)
}

func requireOwner(quiz domain.Quiz, caller domain.User) error {
	if caller.Role.Privileged() || caller.ID == quiz.CreatedBy {
		return nil
	}
	return domain.ErrForbidden
}

func questionFromInput(in QuestionInput, position int) (domain.Question, error) {
	if strings.TrimSpace(in.Question) == "" {
		return domain.Question{}, fmt.Errorf("%w: question %d has no text", domain.ErrValidation, position)
	}
	options := []string{in.OptionA, in.OptionB, in.OptionC, in.OptionD}
	for i, option := range options {
		if strings.TrimSpace(option) == "" {
			return domain.Question{}, fmt.Errorf("%w: question %d is missing option %c", domain.ErrValidation, position, 'A'+i)
		}
	}
	correct := strings.ToUpper(strings.TrimSpace(in.CorrectAnswer))
	if !validLetter(correct) {
		return domain.Question{}, fmt.Errorf("%w: question %d has correct answer %q, want A-D", domain.ErrValidation, position, in.CorrectAnswer)
	}
	return domain.Question{
		Text:          in.Question,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: correct,
		Explanation:   in.Explanation,
	}, nil
}

func validLetter(letter string) bool {
	switch letter {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
