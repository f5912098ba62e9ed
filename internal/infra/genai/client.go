// Package genai calls the external question-generation service over HTTP.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"edu-quiz-service/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client talks to the generation service's /api/ai/generate-quiz endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Content      string `json:"content"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

type rawQuestion struct {
	Question    string `json:"question"`
	A           string `json:"a"`
	B           string `json:"b"`
	C           string `json:"c"`
	D           string `json:"d"`
	Correct     string `json:"correct"`
	Explanation string `json:"explanation"`
}

type generateResponse struct {
	Questions []rawQuestion `json:"questions"`
}

func (c *Client) Generate(ctx context.Context, content string, count int, difficulty domain.Difficulty) ([]domain.GeneratedQuestion, error) {
	body, err := json.Marshal(generateRequest{
		Content:      content,
		NumQuestions: count,
		Difficulty:   strings.ToLower(string(difficulty)),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/generate-quiz", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("generator returned no questions")
	}

	out := make([]domain.GeneratedQuestion, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		out = append(out, domain.GeneratedQuestion{
			Question:      q.Question,
			OptionA:       q.A,
			OptionB:       q.B,
			OptionC:       q.C,
			OptionD:       q.D,
			CorrectAnswer: strings.ToUpper(strings.TrimSpace(q.Correct)),
			Explanation:   q.Explanation,
		})
	}
	return out, nil
}
