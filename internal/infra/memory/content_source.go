package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"edu-quiz-service/internal/domain"
)

// QuizContentLoader reads quiz content from the backing store.
type QuizContentLoader interface {
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
	GetQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)
}

// ContentSource caches quiz-with-questions reads with a TTL to avoid
// repeated store hits. Writes go around it; callers invalidate after them.
type ContentSource struct {
	loader QuizContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedContent
}

type cachedContent struct {
	quiz      domain.Quiz
	questions []domain.Question
	expiresAt time.Time
}

func NewContentSource(loader QuizContentLoader, ttl time.Duration) *ContentSource {
	return &ContentSource{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedContent),
	}
}

func (c *ContentSource) QuizContent(ctx context.Context, quizID int64) (domain.Quiz, []domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(keyFor(quizID), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry, nil
		}
		c.mu.RUnlock()

		quiz, err := c.loader.GetQuiz(ctx, quizID)
		if err != nil {
			return cachedContent{}, err
		}
		questions, err := c.loader.GetQuestions(ctx, quizID)
		if err != nil {
			return cachedContent{}, err
		}

		entry := cachedContent{
			quiz:      quiz,
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Lock()
		c.cache[quizID] = entry
		c.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	entry := result.(cachedContent)
	return entry.quiz, entry.questions, nil
}

func (c *ContentSource) InvalidateQuizContent(_ context.Context, quizID int64) {
	c.mu.Lock()
	delete(c.cache, quizID)
	c.mu.Unlock()
}

func (c *ContentSource) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func keyFor(quizID int64) string {
	return "quiz-" + strconv.FormatInt(quizID, 10)
}
