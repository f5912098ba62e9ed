package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"edu-quiz-service/internal/domain"
)

// EduStore implements the course, flashcard and user read interfaces on
// Postgres via bun.
type EduStore struct {
	db *bun.DB
}

func NewEduStore(db *bun.DB) *EduStore {
	return &EduStore{db: db}
}

func (s *EduStore) User(ctx context.Context, userID int64) (domain.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("u.id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return domain.User{ID: row.ID, Name: row.Name, Role: domain.Role(row.Role)}, nil
}

func (s *EduStore) Lesson(ctx context.Context, lessonID int64) (domain.Lesson, error) {
	var row lessonRow
	err := s.db.NewSelect().Model(&row).Where("l.id = ?", lessonID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lesson{}, domain.ErrLessonNotFound
	}
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("load lesson: %w", err)
	}
	return lessonFrom(row), nil
}

func (s *EduStore) Course(ctx context.Context, courseID int64) (domain.Course, error) {
	var row courseRow
	err := s.db.NewSelect().Model(&row).Where("c.id = ?", courseID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("load course: %w", err)
	}
	return domain.Course{ID: row.ID, Title: row.Title, CreatedBy: row.CreatedBy}, nil
}

func (s *EduStore) LessonsByCourse(ctx context.Context, courseID int64) ([]domain.Lesson, error) {
	var rows []lessonRow
	err := s.db.NewSelect().Model(&rows).
		Where("l.course_id = ?", courseID).
		Order("l.order_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	lessons := make([]domain.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, lessonFrom(row))
	}
	return lessons, nil
}

func (s *EduStore) EnrolledCourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := s.db.NewSelect().Model((*enrollmentRow)(nil)).
		Column("course_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return ids, nil
}

func (s *EduStore) LessonCompleted(ctx context.Context, userID, lessonID int64) (bool, error) {
	exists, err := s.db.NewSelect().Model((*progressRow)(nil)).
		Where("user_id = ?", userID).
		Where("lesson_id = ?", lessonID).
		Where("completed").
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check lesson progress: %w", err)
	}
	return exists, nil
}

func (s *EduStore) DueCards(ctx context.Context, userID int64, now time.Time) ([]domain.DueCard, error) {
	var rows []reviewRow
	err := s.db.NewSelect().Model(&rows).
		Where("fr.user_id = ?", userID).
		Where("fr.due_at <= ?", now).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list due cards: %w", err)
	}
	cards := make([]domain.DueCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, domain.DueCard{
			FlashcardID: row.FlashcardID,
			UserID:      row.UserID,
			DueAt:       row.DueAt,
		})
	}
	return cards, nil
}

func (s *EduStore) DeckIDByCard(ctx context.Context, flashcardID int64) (int64, error) {
	var row flashcardRow
	err := s.db.NewSelect().Model(&row).Where("f.id = ?", flashcardID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrDeckNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve card deck: %w", err)
	}
	return row.DeckID, nil
}

func (s *EduStore) Deck(ctx context.Context, deckID int64) (domain.FlashcardDeck, error) {
	var row deckRow
	err := s.db.NewSelect().Model(&row).Where("fd.id = ?", deckID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FlashcardDeck{}, domain.ErrDeckNotFound
	}
	if err != nil {
		return domain.FlashcardDeck{}, fmt.Errorf("load deck: %w", err)
	}
	return domain.FlashcardDeck{ID: row.ID, OwnerID: row.OwnerID, Name: row.Name}, nil
}

func lessonFrom(row lessonRow) domain.Lesson {
	return domain.Lesson{
		ID:         row.ID,
		CourseID:   row.CourseID,
		Title:      row.Title,
		Content:    row.Content,
		OrderIndex: row.OrderIndex,
	}
}
