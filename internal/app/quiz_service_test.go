package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"edu-quiz-service/internal/domain"
	"edu-quiz-service/internal/infra/memory"
)

type serviceFixture struct {
	quizzes   *memory.QuizStore
	edu       *memory.EduStore
	generator *memory.StaticGenerator
	service   *QuizService
	now       time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	edu := memory.NewEduStore()
	edu.AddUser(learner)
	edu.AddUser(instructor)
	edu.AddCourse(domain.Course{ID: 1, Title: "Go Basics", CreatedBy: instructor.ID})
	edu.AddLesson(domain.Lesson{ID: 1, CourseID: 1, Title: "Slices", Content: "Slices wrap arrays.", OrderIndex: 1})
	edu.Enroll(learner.ID, 1)

	quizzes := memory.NewQuizStore()
	generator := &memory.StaticGenerator{Questions: []domain.GeneratedQuestion{
		{Question: "Len of nil slice?", OptionA: "0", OptionB: "1", OptionC: "panics", OptionD: "undefined", CorrectAnswer: "a"},
		{Question: "Append returns?", OptionA: "nothing", OptionB: "a slice", OptionC: "an error", OptionD: "a pointer", CorrectAnswer: "B", Explanation: "append may reallocate"},
	}}
	content := memory.NewContentSource(quizzes, time.Minute)
	service := NewQuizService(quizzes, quizzes, edu, content, generator).
		WithClock(func() time.Time { return now })

	return &serviceFixture{quizzes: quizzes, edu: edu, generator: generator, service: service, now: now}
}

func (f *serviceFixture) createQuiz(t *testing.T, input CreateQuizInput) QuizDetail {
	t.Helper()
	if input.LessonID == 0 {
		input.LessonID = 1
	}
	if input.Title == "" {
		input.Title = "Slices quiz"
	}
	if input.Difficulty == "" {
		input.Difficulty = domain.DifficultyEasy
	}
	if input.Questions == nil {
		input.Questions = []QuestionInput{
			{Question: "Q1", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "A"},
			{Question: "Q2", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "B"},
		}
	}
	detail, err := f.service.CreateManual(context.Background(), instructor, input)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return detail
}

func TestGeneratePersistsQuiz(t *testing.T) {
	f := newServiceFixture(t)

	detail, err := f.service.Generate(context.Background(), instructor, 1, domain.DifficultyMedium, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if detail.Quiz.ID == 0 {
		t.Fatal("expected quiz ID assigned")
	}
	if !detail.Quiz.Public {
		t.Fatal("instructor-generated quiz should be public")
	}
	if len(detail.Questions) != 2 || detail.Questions[0].CorrectAnswer != "A" {
		t.Fatalf("correct answers not normalized: %+v", detail.Questions)
	}

	stored, err := f.quizzes.GetQuestions(context.Background(), detail.Quiz.ID)
	if err != nil || len(stored) != 2 {
		t.Fatalf("questions not persisted: %v, %d", err, len(stored))
	}
}

func TestGenerateByLearnerIsPrivate(t *testing.T) {
	f := newServiceFixture(t)

	detail, err := f.service.Generate(context.Background(), learner, 1, domain.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if detail.Quiz.Public {
		t.Fatal("learner-generated quiz must stay private")
	}
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.Err = errors.New("model overloaded")

	_, err := f.service.Generate(context.Background(), instructor, 1, domain.DifficultyEasy, 2)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	quizzes, err := f.quizzes.ListByCreator(context.Background(), instructor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("failed generation must not persist anything: %+v", quizzes)
	}
}

func TestGenerateRejectsBadCorrectLetter(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.Questions = []domain.GeneratedQuestion{
		{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "E"},
	}

	_, err := f.service.Generate(context.Background(), instructor, 1, domain.DifficultyEasy, 1)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateUnknownLesson(t *testing.T) {
	f := newServiceFixture(t)
	if _, err := f.service.Generate(context.Background(), instructor, 99, domain.DifficultyEasy, 2); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestCreateManualValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	zero := 0
	valid := []QuestionInput{{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "A"}}

	cases := []struct {
		name  string
		input CreateQuizInput
	}{
		{"empty title", CreateQuizInput{LessonID: 1, Title: "  ", Difficulty: domain.DifficultyEasy, Questions: valid}},
		{"no questions", CreateQuizInput{LessonID: 1, Title: "T", Difficulty: domain.DifficultyEasy}},
		{"bad difficulty", CreateQuizInput{LessonID: 1, Title: "T", Difficulty: "IMPOSSIBLE", Questions: valid}},
		{"zero max attempts", CreateQuizInput{LessonID: 1, Title: "T", Difficulty: domain.DifficultyEasy, MaxAttempts: &zero, Questions: valid}},
		{"bad correct letter", CreateQuizInput{LessonID: 1, Title: "T", Difficulty: domain.DifficultyEasy, Questions: []QuestionInput{
			{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "X"},
		}}},
		{"missing option", CreateQuizInput{LessonID: 1, Title: "T", Difficulty: domain.DifficultyEasy, Questions: []QuestionInput{
			{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", CorrectAnswer: "A"},
		}}},
	}
	for _, c := range cases {
		if _, err := f.service.CreateManual(ctx, instructor, c.input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}
}

func TestFetchPrivateQuizForbidden(t *testing.T) {
	f := newServiceFixture(t)
	detail, err := f.service.CreateManual(context.Background(), learner, CreateQuizInput{
		LessonID:   1,
		Title:      "Private notes quiz",
		Difficulty: domain.DifficultyEasy,
		Questions:  []QuestionInput{{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "A"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stranger := domain.User{ID: 9, Role: domain.RoleLearner}
	if _, err := f.service.Fetch(context.Background(), stranger, detail.Quiz.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.service.Fetch(context.Background(), learner, detail.Quiz.ID); err != nil {
		t.Fatalf("creator should fetch own quiz: %v", err)
	}
}

func TestFetchExpiredQuiz(t *testing.T) {
	f := newServiceFixture(t)
	past := f.now.Add(-time.Hour)
	detail := f.createQuiz(t, CreateQuizInput{Deadline: &past})

	if _, err := f.service.Fetch(context.Background(), learner, detail.Quiz.ID); !errors.Is(err, domain.ErrQuizExpired) {
		t.Fatalf("expected ErrQuizExpired, got %v", err)
	}

	view, err := f.service.Fetch(context.Background(), instructor, detail.Quiz.ID)
	if err != nil {
		t.Fatalf("creator should review expired quiz: %v", err)
	}
	if view.State != QuizExpired || view.CanAttemptMore {
		t.Fatalf("expected EXPIRED view: %+v", view)
	}
}

func TestSubmitGradesAndRecordsAttempt(t *testing.T) {
	f := newServiceFixture(t)
	detail := f.createQuiz(t, CreateQuizInput{})
	ctx := context.Background()

	result, err := f.service.Submit(ctx, learner, detail.Quiz.ID, map[int64]string{
		detail.Questions[0].ID: "A",
		detail.Questions[1].ID: "D",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.CorrectCount != 1 || result.Percentage != 50 || result.Message != "fair" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.AttemptNumber != 1 {
		t.Fatalf("expected attempt 1, got %d", result.AttemptNumber)
	}

	second, err := f.service.Submit(ctx, learner, detail.Quiz.ID, nil)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.AttemptNumber != 2 {
		t.Fatalf("expected attempt 2, got %d", second.AttemptNumber)
	}

	attempts, err := f.service.MyResults(ctx, learner)
	if err != nil {
		t.Fatalf("my results: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 recorded attempts: %+v", attempts)
	}
	if attempts[0].Score+attempts[1].Score != 50 {
		t.Fatalf("recorded scores wrong: %+v", attempts)
	}
}

func TestSubmitRespectsAttemptLimit(t *testing.T) {
	f := newServiceFixture(t)
	one := 1
	detail := f.createQuiz(t, CreateQuizInput{MaxAttempts: &one})
	ctx := context.Background()

	if _, err := f.service.Submit(ctx, learner, detail.Quiz.ID, nil); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.service.Submit(ctx, learner, detail.Quiz.ID, nil); !errors.Is(err, domain.ErrAttemptLimitExceeded) {
		t.Fatalf("expected ErrAttemptLimitExceeded, got %v", err)
	}
}

func TestSubmitAfterDeadline(t *testing.T) {
	f := newServiceFixture(t)
	past := f.now.Add(-time.Minute)
	detail := f.createQuiz(t, CreateQuizInput{Deadline: &past})

	if _, err := f.service.Submit(context.Background(), learner, detail.Quiz.ID, nil); !errors.Is(err, domain.ErrQuizExpired) {
		t.Fatalf("expected ErrQuizExpired, got %v", err)
	}
	// The creator is bound by the deadline on submit too.
	if _, err := f.service.Submit(context.Background(), instructor, detail.Quiz.ID, nil); !errors.Is(err, domain.ErrQuizExpired) {
		t.Fatalf("expected ErrQuizExpired for creator, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	f := newServiceFixture(t)
	detail := f.createQuiz(t, CreateQuizInput{})
	ctx := context.Background()

	title := "Renamed"
	three := 3
	updated, err := f.service.Update(ctx, instructor, detail.Quiz.ID, QuizUpdate{Title: &title, MaxAttempts: &three})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quiz.Title != "Renamed" || *updated.Quiz.MaxAttempts != 3 {
		t.Fatalf("update not applied: %+v", updated.Quiz)
	}
	if updated.Quiz.Difficulty != domain.DifficultyEasy {
		t.Fatalf("untouched field changed: %+v", updated.Quiz)
	}

	// A stale cached copy must not survive the update.
	view, err := f.service.Fetch(ctx, learner, detail.Quiz.ID)
	if err != nil {
		t.Fatalf("fetch after update: %v", err)
	}
	if view.Quiz.Title != "Renamed" {
		t.Fatalf("cache not invalidated: %+v", view.Quiz)
	}
}

func TestUpdateByStrangerForbidden(t *testing.T) {
	f := newServiceFixture(t)
	detail := f.createQuiz(t, CreateQuizInput{})

	title := "Hijacked"
	if _, err := f.service.Update(context.Background(), learner, detail.Quiz.ID, QuizUpdate{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPublishFlipsVisibility(t *testing.T) {
	f := newServiceFixture(t)
	detail, err := f.service.CreateManual(context.Background(), learner, CreateQuizInput{
		LessonID:   1,
		Title:      "Study set",
		Difficulty: domain.DifficultyEasy,
		Questions:  []QuestionInput{{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "A"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.Quiz.Public {
		t.Fatal("learner quiz should start private")
	}

	published, err := f.service.Publish(context.Background(), learner, detail.Quiz.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.Public {
		t.Fatal("publish should flip the quiz public")
	}
}

func TestDeleteCascades(t *testing.T) {
	f := newServiceFixture(t)
	detail := f.createQuiz(t, CreateQuizInput{})
	ctx := context.Background()

	if _, err := f.service.Submit(ctx, learner, detail.Quiz.ID, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.service.Delete(ctx, instructor, detail.Quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.service.Fetch(ctx, instructor, detail.Quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound after delete, got %v", err)
	}
	attempts, err := f.service.MyResults(ctx, learner)
	if err != nil {
		t.Fatalf("my results: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("attempts should be cascaded away: %+v", attempts)
	}
}

func TestFetchByLesson(t *testing.T) {
	f := newServiceFixture(t)
	detail := f.createQuiz(t, CreateQuizInput{})

	view, err := f.service.FetchByLesson(context.Background(), learner, 1)
	if err != nil {
		t.Fatalf("fetch by lesson: %v", err)
	}
	if view.Quiz.ID != detail.Quiz.ID {
		t.Fatalf("wrong quiz resolved: %+v", view.Quiz)
	}

	if _, err := f.service.FetchByLesson(context.Background(), learner, 99); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestListByCourseOnlyPublic(t *testing.T) {
	f := newServiceFixture(t)
	f.createQuiz(t, CreateQuizInput{Title: "Public one"})
	if _, err := f.service.CreateManual(context.Background(), learner, CreateQuizInput{
		LessonID:   1,
		Title:      "Private one",
		Difficulty: domain.DifficultyEasy,
		Questions:  []QuestionInput{{Question: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "A"}},
	}); err != nil {
		t.Fatalf("create private: %v", err)
	}

	quizzes, err := f.service.ListByCourse(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Title != "Public one" {
		t.Fatalf("expected only the public quiz: %+v", quizzes)
	}
	if quizzes[0].QuestionCount != 2 {
		t.Fatalf("expected question count 2: %+v", quizzes[0])
	}
}
