package memory

import (
	"context"
	"sort"
	"sync"

	"edu-quiz-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizStore and
// app.AttemptStore, useful for tests and for running without Postgres.
type QuizStore struct {
	mu         sync.RWMutex
	quizzes    map[int64]domain.Quiz
	questions  map[int64][]domain.Question
	attempts   map[int64][]domain.Attempt
	nextQuiz   int64
	nextQn     int64
	nextResult int64
}

func NewQuizStore() *QuizStore {
	return &QuizStore{
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64][]domain.Question),
		attempts:  make(map[int64][]domain.Attempt),
	}
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz *domain.Quiz, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuiz++
	quiz.ID = s.nextQuiz

	stored := make([]domain.Question, len(questions))
	copy(stored, questions)
	for i := range stored {
		s.nextQn++
		stored[i].ID = s.nextQn
		stored[i].QuizID = quiz.ID
		questions[i] = stored[i]
	}

	s.quizzes[quiz.ID] = *quiz
	s.questions[quiz.ID] = stored
	return nil
}

func (s *QuizStore) GetQuiz(_ context.Context, quizID int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizStore) GetQuestions(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return nil, domain.ErrQuizNotFound
	}
	questions := s.questions[quizID]
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

func (s *QuizStore) FirstPublicByLesson(_ context.Context, lessonID int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Quiz
	for id := int64(1); id <= s.nextQuiz; id++ {
		quiz, ok := s.quizzes[id]
		if ok && quiz.Public && quiz.LessonID == lessonID {
			found = &quiz
			break
		}
	}
	if found == nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return *found, nil
}

func (s *QuizStore) ListPublicByCourse(_ context.Context, courseID int64) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Quiz
	for id := int64(1); id <= s.nextQuiz; id++ {
		if quiz, ok := s.quizzes[id]; ok && quiz.Public && quiz.CourseID == courseID {
			out = append(out, quiz)
		}
	}
	return out, nil
}

func (s *QuizStore) ListByCreator(_ context.Context, userID int64) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Quiz
	for id := int64(1); id <= s.nextQuiz; id++ {
		if quiz, ok := s.quizzes[id]; ok && quiz.CreatedBy == userID {
			out = append(out, quiz)
		}
	}
	return out, nil
}

func (s *QuizStore) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) DeleteQuiz(_ context.Context, quizID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	// Results, then questions, then the quiz; under one lock this is atomic.
	delete(s.attempts, quizID)
	delete(s.questions, quizID)
	delete(s.quizzes, quizID)
	return nil
}

func (s *QuizStore) CountAttempts(_ context.Context, quizID, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, attempt := range s.attempts[quizID] {
		if attempt.UserID == userID {
			count++
		}
	}
	return count, nil
}

// InsertAttempt enforces the attempt limit and inserts under a single lock,
// so concurrent submissions cannot overshoot the budget.
func (s *QuizStore) InsertAttempt(_ context.Context, attempt *domain.Attempt, maxAttempts *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maxAttempts != nil {
		count := 0
		for _, existing := range s.attempts[attempt.QuizID] {
			if existing.UserID == attempt.UserID {
				count++
			}
		}
		if count >= *maxAttempts {
			return domain.ErrAttemptLimitExceeded
		}
	}

	s.nextResult++
	attempt.ID = s.nextResult
	s.attempts[attempt.QuizID] = append(s.attempts[attempt.QuizID], *attempt)
	return nil
}

func (s *QuizStore) ListByUser(_ context.Context, userID int64) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attempt
	for _, attempts := range s.attempts {
		for _, attempt := range attempts {
			if attempt.UserID == userID {
				out = append(out, attempt)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *QuizStore) QuizStats(_ context.Context, quizID int64) (domain.AttemptStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempts := s.attempts[quizID]
	if len(attempts) == 0 {
		return domain.AttemptStats{}, nil
	}
	students := make(map[int64]struct{})
	total := 0.0
	for _, attempt := range attempts {
		students[attempt.UserID] = struct{}{}
		total += attempt.Score
	}
	return domain.AttemptStats{
		Students:     len(students),
		AverageScore: total / float64(len(attempts)),
	}, nil
}
