// Package summarizer relays article summarization requests to the
// OpenAI chat-completions API. It carries no article semantics of its
// own; the pipeline works the same without it.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	model           = "gpt-4o-mini"

	systemPrompt = "당신은 뉴스 기사를 요약하는 전문가입니다. 핵심 내용만 간결하게 3-4문장으로 요약해주세요."
	userPrompt   = "다음 뉴스 기사를 한국어로 요약해주세요:\n\n"

	emptySummary = "요약을 생성할 수 없습니다."
)

// APIError is a non-success response from the upstream API. The server
// layer relays its status code to the client.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai api error: %s", e.Status)
}

// Summarizer is a client for the summarization API. Transport errors
// and upstream 5xx responses are retried with exponential backoff under
// the request context; client errors (bad key, rate limit) are not.
type Summarizer struct {
	client          *http.Client
	endpoint        string
	initialInterval time.Duration
	maxElapsed      time.Duration
}

// New creates a summarizer against the real OpenAI endpoint.
func New() *Summarizer {
	return NewWithEndpoint(defaultEndpoint)
}

// NewWithEndpoint creates a summarizer against a custom endpoint.
func NewWithEndpoint(endpoint string) *Summarizer {
	return &Summarizer{
		client:          &http.Client{Timeout: 30 * time.Second},
		endpoint:        endpoint,
		initialInterval: 500 * time.Millisecond,
		maxElapsed:      20 * time.Second,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize asks the API for a 3-4 sentence Korean summary of the
// article's title and description.
func (s *Summarizer) Summarize(ctx context.Context, title, description, apiKey string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt + title + "\n\n" + description},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("encode summarize request: %w", err)
	}

	var result chatResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := s.client.Do(req)
		if err != nil {
			log.WithFields(log.Fields{"error": err}).Warn("Summarization request failed, will retry")
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			log.WithFields(log.Fields{"status": resp.Status}).Warn("Summarization upstream error, will retry")
			return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Status: resp.Status})
		}

		if err := json.Unmarshal(body, &result); err != nil {
			return backoff.Permanent(fmt.Errorf("decode summarize response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initialInterval
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = s.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return emptySummary, nil
	}
	return result.Choices[0].Message.Content, nil
}
