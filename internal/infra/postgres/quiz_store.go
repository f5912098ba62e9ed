package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"

	"edu-quiz-service/internal/domain"
)

// QuizStore implements app.QuizStore and app.AttemptStore on Postgres. CRUD
// goes through bun; the aggregate stats behind the instructor reminders read
// through a pgx pool, which may be nil when only bun is wired.
type QuizStore struct {
	db   *bun.DB
	pool *pgxpool.Pool
}

func NewQuizStore(db *bun.DB, pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{db: db, pool: pool}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz *domain.Quiz, questions []domain.Question) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := quizRowFrom(*quiz)
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		quiz.ID = row.ID

		rows := make([]questionRow, 0, len(questions))
		for _, q := range questions {
			q.QuizID = row.ID
			rows = append(rows, questionRowFrom(q))
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		for i := range rows {
			questions[i].ID = rows[i].ID
			questions[i].QuizID = rows[i].QuizID
		}
		return nil
	})
}

func (s *QuizStore) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	var row quizRow
	err := s.db.NewSelect().Model(&row).Where("q.id = ?", quizID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return row.toDomain(), nil
}

func (s *QuizStore) GetQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	var rows []questionRow
	err := s.db.NewSelect().Model(&rows).Where("qq.quiz_id = ?", quizID).Order("qq.id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, row.toDomain())
	}
	return questions, nil
}

func (s *QuizStore) FirstPublicByLesson(ctx context.Context, lessonID int64) (domain.Quiz, error) {
	var row quizRow
	err := s.db.NewSelect().Model(&row).
		Where("q.lesson_id = ?", lessonID).
		Where("q.is_public").
		Order("q.id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz by lesson: %w", err)
	}
	return row.toDomain(), nil
}

func (s *QuizStore) ListPublicByCourse(ctx context.Context, courseID int64) ([]domain.Quiz, error) {
	var rows []quizRow
	err := s.db.NewSelect().Model(&rows).
		Where("q.course_id = ?", courseID).
		Where("q.is_public").
		Order("q.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes by course: %w", err)
	}
	return quizzesFrom(rows), nil
}

func (s *QuizStore) ListByCreator(ctx context.Context, userID int64) ([]domain.Quiz, error) {
	var rows []quizRow
	err := s.db.NewSelect().Model(&rows).
		Where("q.created_by = ?", userID).
		Order("q.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes by creator: %w", err)
	}
	return quizzesFrom(rows), nil
}

func (s *QuizStore) UpdateQuiz(ctx context.Context, quiz domain.Quiz) error {
	row := quizRowFrom(quiz)
	res, err := s.db.NewUpdate().Model(&row).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// DeleteQuiz removes attempts, then questions, then the quiz, in one
// transaction so the cascade is all-or-nothing.
func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*attemptRow)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}
		if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("quiz_id = ?", quizID).Exec(ctx); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		res, err := tx.NewDelete().Model((*quizRow)(nil)).Where("id = ?", quizID).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete quiz: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return domain.ErrQuizNotFound
		}
		return nil
	})
}

func (s *QuizStore) CountAttempts(ctx context.Context, quizID, userID int64) (int, error) {
	count, err := s.db.NewSelect().Model((*attemptRow)(nil)).
		Where("quiz_id = ?", quizID).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return count, nil
}

// InsertAttempt guards the insert with the limit check in a single
// statement, so concurrent submissions from the same caller cannot push the
// count past maxAttempts.
func (s *QuizStore) InsertAttempt(ctx context.Context, attempt *domain.Attempt, maxAttempts *int) error {
	if maxAttempts == nil {
		row := attemptRow{
			QuizID:    attempt.QuizID,
			UserID:    attempt.UserID,
			Score:     attempt.Score,
			CreatedAt: attempt.CreatedAt,
		}
		if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		attempt.ID = row.ID
		return nil
	}

	var id int64
	err := s.db.NewRaw(`
		INSERT INTO quiz_attempts (quiz_id, user_id, score, created_at)
		SELECT ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM quiz_attempts WHERE quiz_id = ? AND user_id = ?) < ?
		RETURNING id`,
		attempt.QuizID, attempt.UserID, attempt.Score, attempt.CreatedAt,
		attempt.QuizID, attempt.UserID, *maxAttempts,
	).Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAttemptLimitExceeded
	}
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	attempt.ID = id
	return nil
}

func (s *QuizStore) ListByUser(ctx context.Context, userID int64) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := s.db.NewSelect().Model(&rows).
		Where("qa.user_id = ?", userID).
		Order("qa.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	attempts := make([]domain.Attempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, row.toDomain())
	}
	return attempts, nil
}

func (s *QuizStore) QuizStats(ctx context.Context, quizID int64) (domain.AttemptStats, error) {
	const query = `SELECT COUNT(DISTINCT user_id), COALESCE(AVG(score), 0) FROM quiz_attempts WHERE quiz_id = $1`

	var stats domain.AttemptStats
	if s.pool != nil {
		err := s.pool.QueryRow(ctx, query, quizID).Scan(&stats.Students, &stats.AverageScore)
		if err != nil {
			return domain.AttemptStats{}, fmt.Errorf("quiz stats: %w", err)
		}
		return stats, nil
	}

	err := s.db.NewRaw(`SELECT COUNT(DISTINCT user_id), COALESCE(AVG(score), 0) FROM quiz_attempts WHERE quiz_id = ?`, quizID).
		Scan(ctx, &stats.Students, &stats.AverageScore)
	if err != nil {
		return domain.AttemptStats{}, fmt.Errorf("quiz stats: %w", err)
	}
	return stats, nil
}

func quizzesFrom(rows []quizRow) []domain.Quiz {
	quizzes := make([]domain.Quiz, 0, len(rows))
	for _, row := range rows {
		quizzes = append(quizzes, row.toDomain())
	}
	return quizzes
}
