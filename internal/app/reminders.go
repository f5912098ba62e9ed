package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"edu-quiz-service/internal/domain"
)

// ReminderProducer scans one external dataset for a caller and emits zero or
// more candidate reminders. Producers are independent: one failing never
// takes down the feed, and empty input is not an error.
type ReminderProducer interface {
	Produce(ctx context.Context, caller domain.User, now time.Time) ([]domain.Reminder, error)
}

// ReminderService fans out to all producers concurrently and ranks the
// merged candidates. Nothing is cached between requests; every feed is
// synthesized fresh.
type ReminderService struct {
	producers []ReminderProducer
	now       func() time.Time
}

func NewReminderService(producers ...ReminderProducer) *ReminderService {
	return &ReminderService{producers: producers, now: time.Now}
}

// WithClock is test-only for deterministic timestamps.
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

// Feed collects and ranks the caller's reminders. A producer error is logged
// and its slice dropped; the feed itself never fails on producer errors.
func (s *ReminderService) Feed(ctx context.Context, caller domain.User) domain.ReminderFeed {
	now := s.now()
	results := make([][]domain.Reminder, len(s.producers))

	g, gctx := errgroup.WithContext(ctx)
	for i, producer := range s.producers {
		i, producer := i, producer
		g.Go(func() error {
			reminders, err := producer.Produce(gctx, caller, now)
			if err != nil {
				log.Printf("reminder producer %T failed for user %d: %v", producer, caller.ID, err)
				return nil
			}
			results[i] = reminders
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.Reminder
	for _, reminders := range results {
		merged = append(merged, reminders...)
	}
	return Rank(merged)
}

// DefaultProducers wires the five standard producers over the given stores.
func DefaultProducers(quizzes QuizStore, attempts AttemptStore, courses CourseStore, flashcards FlashcardStore) []ReminderProducer {
	return []ReminderProducer{
		&QuizDeadlineProducer{Quizzes: quizzes, Attempts: attempts, Courses: courses},
		&FlashcardDueProducer{Flashcards: flashcards},
		&LessonIncompleteProducer{Courses: courses},
		&QuizNoAttemptProducer{Quizzes: quizzes, Attempts: attempts},
		&LowScoreProducer{Quizzes: quizzes, Attempts: attempts},
	}
}

// QuizDeadlineProducer reminds learners of public quizzes closing within the
// next 72 hours that they still have attempts for and have not yet taken.
type QuizDeadlineProducer struct {
	Quizzes  QuizStore
	Attempts AttemptStore
	Courses  CourseStore
}

func (p *QuizDeadlineProducer) Produce(ctx context.Context, caller domain.User, now time.Time) ([]domain.Reminder, error) {
	if caller.Role != domain.RoleLearner {
		return nil, nil
	}
	courseIDs, err := p.Courses.EnrolledCourseIDs(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	horizon := now.Add(72 * time.Hour)
	var reminders []domain.Reminder
	for _, courseID := range courseIDs {
		quizzes, err := p.Quizzes.ListPublicByCourse(ctx, courseID)
		if err != nil {
			return reminders, err
		}
		for _, quiz := range quizzes {
			if quiz.Deadline == nil || quizExpired(quiz, now) || quiz.Deadline.After(horizon) {
				continue
			}
			count, err := p.Attempts.CountAttempts(ctx, quiz.ID, caller.ID)
			if err != nil {
				return reminders, err
			}
			if count > 0 {
				continue
			}
			if quiz.MaxAttempts != nil && count >= *quiz.MaxAttempts {
				continue
			}

			hoursLeft := int(quiz.Deadline.Sub(now).Hours())
			var priority domain.Priority
			var timeLeft string
			if hoursLeft <= 24 {
				priority = domain.PriorityUrgent
				if hoursLeft <= 1 {
					timeLeft = "less than an hour"
				} else {
					timeLeft = fmt.Sprintf("%d hours", hoursLeft)
				}
			} else {
				daysLeft := hoursLeft / 24
				if daysLeft <= 1 {
					priority = domain.PriorityHigh
				} else {
					priority = domain.PriorityMedium
				}
				timeLeft = fmt.Sprintf("%d days", daysLeft)
			}

			deadline := *quiz.Deadline
			reminders = append(reminders, domain.Reminder{
				ID:        fmt.Sprintf("quiz_%d", quiz.ID),
				Type:      domain.ReminderQuizDeadline,
				Priority:  priority,
				Title:     "Quiz closing soon",
				Message:   fmt.Sprintf("%q closes in %s", quiz.Title, timeLeft),
				Icon:      "⏰",
				ActionURL: fmt.Sprintf("/quiz/%d", quiz.ID),
				Deadline:  &deadline,
				Metadata: map[string]any{
					"quizId":     quiz.ID,
					"lessonId":   quiz.LessonID,
					"difficulty": quiz.Difficulty,
				},
			})
		}
	}
	return reminders, nil
}

// FlashcardDueProducer groups a learner's due flashcards by deck and emits
// one reminder per deck with due cards.
type FlashcardDueProducer struct {
	Flashcards FlashcardStore
}

func (p *FlashcardDueProducer) Produce(ctx context.Context, caller domain.User, now time.Time) ([]domain.Reminder, error) {
	if caller.Role != domain.RoleLearner {
		return nil, nil
	}
	due, err := p.Flashcards.DueCards(ctx, caller.ID, now)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}

	counts := make(map[int64]int)
	var order []int64
	for _, card := range due {
		deckID, err := p.Flashcards.DeckIDByCard(ctx, card.FlashcardID)
		if err != nil {
			// A dangling card association should not break the feed.
			continue
		}
		if _, seen := counts[deckID]; !seen {
			order = append(order, deckID)
		}
		counts[deckID]++
	}

	var reminders []domain.Reminder
	for _, deckID := range order {
		deck, err := p.Flashcards.Deck(ctx, deckID)
		if err != nil {
			continue
		}
		dueCount := counts[deckID]
		var priority domain.Priority
		switch {
		case dueCount >= 20:
			priority = domain.PriorityHigh
		case dueCount >= 10:
			priority = domain.PriorityMedium
		default:
			priority = domain.PriorityLow
		}
		reminders = append(reminders, domain.Reminder{
			ID:        fmt.Sprintf("flashcard_%d", deckID),
			Type:      domain.ReminderFlashcardDue,
			Priority:  priority,
			Title:     "Flashcards due for review",
			Message:   fmt.Sprintf("Deck %q has %d cards due", deck.Name, dueCount),
			Icon:      "🧠",
			ActionURL: fmt.Sprintf("/flashcards/deck/%d/study", deckID),
			Metadata: map[string]any{
				"deckId":   deckID,
				"deckName": deck.Name,
				"dueCount": dueCount,
			},
		})
	}
	return reminders, nil
}

// LessonIncompleteProducer emits one LOW reminder per enrolled course that
// still has lessons without a completion record, pointing at the first one.
type LessonIncompleteProducer struct {
	Courses CourseStore
}

func (p *LessonIncompleteProducer) Produce(ctx context.Context, caller domain.User, now time.Time) ([]domain.Reminder, error) {
	if caller.Role != domain.RoleLearner {
		return nil, nil
	}
	courseIDs, err := p.Courses.EnrolledCourseIDs(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	var reminders []domain.Reminder
	for _, courseID := range courseIDs {
		course, err := p.Courses.Course(ctx, courseID)
		if err != nil {
			continue
		}
		lessons, err := p.Courses.LessonsByCourse(ctx, courseID)
		if err != nil {
			return reminders, err
		}

		incomplete := 0
		var first *domain.Lesson
		for i, lesson := range lessons {
			done, err := p.Courses.LessonCompleted(ctx, caller.ID, lesson.ID)
			if err != nil {
				return reminders, err
			}
			if done {
				continue
			}
			incomplete++
			if first == nil {
				first = &lessons[i]
			}
		}
		if incomplete == 0 || first == nil {
			continue
		}

		reminders = append(reminders, domain.Reminder{
			ID:        fmt.Sprintf("lesson_%d", courseID),
			Type:      domain.ReminderLessonIncomplete,
			Priority:  domain.PriorityLow,
			Title:     "Lessons left to finish",
			Message:   fmt.Sprintf("%q has %d unfinished lessons", course.Title, incomplete),
			Icon:      "📚",
			ActionURL: fmt.Sprintf("/lessons/%d", first.ID),
			Metadata: map[string]any{
				"courseId":        courseID,
				"incompleteCount": incomplete,
				"firstLessonId":   first.ID,
			},
		})
	}
	return reminders, nil
}

// QuizNoAttemptProducer alerts instructors about public quizzes older than a
// week that no student has attempted.
type QuizNoAttemptProducer struct {
	Quizzes  QuizStore
	Attempts AttemptStore
}

func (p *QuizNoAttemptProducer) Produce(ctx context.Context, caller domain.User, now time.Time) ([]domain.Reminder, error) {
	if caller.Role != domain.RoleInstructor {
		return nil, nil
	}
	quizzes, err := p.Quizzes.ListByCreator(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	var reminders []domain.Reminder
	for _, quiz := range quizzes {
		if !quiz.Public || quiz.CreatedAt.After(weekAgo) {
			continue
		}
		stats, err := p.Attempts.QuizStats(ctx, quiz.ID)
		if err != nil {
			return reminders, err
		}
		if stats.Students > 0 {
			continue
		}
		reminders = append(reminders, domain.Reminder{
			ID:        fmt.Sprintf("teacher_quiz_%d", quiz.ID),
			Type:      domain.ReminderQuizNoAttempt,
			Priority:  domain.PriorityMedium,
			Title:     "Quiz has no attempts",
			Message:   fmt.Sprintf("No student has taken %q yet", quiz.Title),
			Icon:      "📝",
			ActionURL: fmt.Sprintf("/lessons/%d", quiz.LessonID),
			Metadata: map[string]any{
				"quizId":   quiz.ID,
				"courseId": quiz.CourseID,
			},
		})
	}
	return reminders, nil
}

// LowScoreProducer alerts instructors when a public quiz with at least three
// unique students averages below 50 percent.
type LowScoreProducer struct {
	Quizzes  QuizStore
	Attempts AttemptStore
}

func (p *LowScoreProducer) Produce(ctx context.Context, caller domain.User, now time.Time) ([]domain.Reminder, error) {
	if caller.Role != domain.RoleInstructor {
		return nil, nil
	}
	quizzes, err := p.Quizzes.ListByCreator(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	var reminders []domain.Reminder
	for _, quiz := range quizzes {
		if !quiz.Public {
			continue
		}
		stats, err := p.Attempts.QuizStats(ctx, quiz.ID)
		if err != nil {
			return reminders, err
		}
		if stats.Students < 3 || stats.AverageScore >= 50 {
			continue
		}
		reminders = append(reminders, domain.Reminder{
			ID:        fmt.Sprintf("low_score_%d", quiz.ID),
			Type:      domain.ReminderLowScoreAlert,
			Priority:  domain.PriorityHigh,
			Title:     "Low average score",
			Message:   fmt.Sprintf("%q averages %.1f%%", quiz.Title, stats.AverageScore),
			Icon:      "⚠️",
			ActionURL: fmt.Sprintf("/lessons/%d", quiz.LessonID),
			Metadata: map[string]any{
				"quizId":       quiz.ID,
				"avgScore":     stats.AverageScore,
				"studentCount": stats.Students,
			},
		})
	}
	return reminders, nil
}
