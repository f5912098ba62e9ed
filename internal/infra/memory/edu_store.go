package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"edu-quiz-service/internal/domain"
)

// EduStore is an in-memory implementation of the course, flashcard and user
// read interfaces the engines consume.
type EduStore struct {
	mu          sync.RWMutex
	users       map[int64]domain.User
	courses     map[int64]domain.Course
	lessons     map[int64]domain.Lesson
	enrollments map[int64][]int64 // userID -> courseIDs
	completed   map[int64]map[int64]bool
	decks       map[int64]domain.FlashcardDeck
	cardDecks   map[int64]int64 // flashcardID -> deckID
	reviews     []domain.DueCard
}

func NewEduStore() *EduStore {
	return &EduStore{
		users:       make(map[int64]domain.User),
		courses:     make(map[int64]domain.Course),
		lessons:     make(map[int64]domain.Lesson),
		enrollments: make(map[int64][]int64),
		completed:   make(map[int64]map[int64]bool),
		decks:       make(map[int64]domain.FlashcardDeck),
		cardDecks:   make(map[int64]int64),
	}
}

// Seed helpers; callers load fixture data before serving.

func (s *EduStore) AddUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *EduStore) AddCourse(course domain.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = course
}

func (s *EduStore) AddLesson(lesson domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessons[lesson.ID] = lesson
}

func (s *EduStore) Enroll(userID, courseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[userID] = append(s.enrollments[userID], courseID)
}

func (s *EduStore) MarkCompleted(userID, lessonID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed[userID] == nil {
		s.completed[userID] = make(map[int64]bool)
	}
	s.completed[userID][lessonID] = true
}

func (s *EduStore) AddDeck(deck domain.FlashcardDeck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[deck.ID] = deck
}

func (s *EduStore) AddCard(flashcardID, deckID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardDecks[flashcardID] = deckID
}

func (s *EduStore) AddReview(review domain.DueCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, review)
}

// app.UserStore

func (s *EduStore) User(_ context.Context, userID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// app.CourseStore

func (s *EduStore) Lesson(_ context.Context, lessonID int64) (domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons[lessonID]
	if !ok {
		return domain.Lesson{}, domain.ErrLessonNotFound
	}
	return lesson, nil
}

func (s *EduStore) Course(_ context.Context, courseID int64) (domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[courseID]
	if !ok {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	return course, nil
}

func (s *EduStore) LessonsByCourse(_ context.Context, courseID int64) ([]domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Lesson
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID {
			out = append(out, lesson)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out, nil
}

func (s *EduStore) EnrolledCourseIDs(_ context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.enrollments[userID]))
	copy(out, s.enrollments[userID])
	return out, nil
}

func (s *EduStore) LessonCompleted(_ context.Context, userID, lessonID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed[userID][lessonID], nil
}

// app.FlashcardStore

func (s *EduStore) DueCards(_ context.Context, userID int64, now time.Time) ([]domain.DueCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DueCard
	for _, review := range s.reviews {
		if review.UserID == userID && !review.DueAt.After(now) {
			out = append(out, review)
		}
	}
	return out, nil
}

func (s *EduStore) DeckIDByCard(_ context.Context, flashcardID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deckID, ok := s.cardDecks[flashcardID]
	if !ok {
		return 0, domain.ErrDeckNotFound
	}
	return deckID, nil
}

func (s *EduStore) Deck(_ context.Context, deckID int64) (domain.FlashcardDeck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[deckID]
	if !ok {
		return domain.FlashcardDeck{}, domain.ErrDeckNotFound
	}
	return deck, nil
}
