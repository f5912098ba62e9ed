package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"edu-quiz-service/internal/domain"
)

// QuizContentLoader fetches quiz content from the backing store on cache miss.
type QuizContentLoader interface {
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
	GetQuestions(ctx context.Context, quizID int64) ([]domain.Question, error)
}

type cachedQuiz struct {
	Quiz      domain.Quiz       `json:"quiz"`
	Questions []domain.Question `json:"questions"`
}

// ContentCache caches quiz content (metadata plus questions, correct answers
// included) as a JSON blob per quiz. Entries expire with a jittered TTL so a
// batch of quizzes cached together does not expire together. Mutations go
// through InvalidateQuizContent, which drops the key.
type ContentCache struct {
	client *redis.Client
	loader QuizContentLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewContentCache(client *redis.Client, loader QuizContentLoader, ttl time.Duration) *ContentCache {
	return &ContentCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ContentCache) QuizContent(ctx context.Context, quizID int64) (domain.Quiz, []domain.Question, error) {
	key := c.key(quizID)

	if quiz, questions, ok := c.fromCache(ctx, key); ok {
		return quiz, questions, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, questions, ok := c.fromCache(ctx, key); ok {
			return cachedQuiz{Quiz: quiz, Questions: questions}, nil
		}

		quiz, err := c.loader.GetQuiz(ctx, quizID)
		if err != nil {
			return cachedQuiz{}, err
		}
		questions, err := c.loader.GetQuestions(ctx, quizID)
		if err != nil {
			return cachedQuiz{}, err
		}

		entry := cachedQuiz{Quiz: quiz, Questions: questions}
		if payload, err := json.Marshal(entry); err == nil {
			_ = c.client.Set(ctx, key, payload, c.ttlWithJitter()).Err()
		}
		return entry, nil
	})
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	entry := result.(cachedQuiz)
	return entry.Quiz, entry.Questions, nil
}

func (c *ContentCache) InvalidateQuizContent(ctx context.Context, quizID int64) {
	_ = c.client.Del(ctx, c.key(quizID)).Err()
}

func (c *ContentCache) fromCache(ctx context.Context, key string) (domain.Quiz, []domain.Question, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Quiz{}, nil, false
	}
	var entry cachedQuiz
	if err := json.Unmarshal(payload, &entry); err != nil {
		return domain.Quiz{}, nil, false
	}
	return entry.Quiz, entry.Questions, true
}

func (c *ContentCache) key(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":content"
}

func (c *ContentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
