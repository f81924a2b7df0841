package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Client implements ports.QuizBackend against the /api routes of a remote server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.QuizBackend = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
	// notFound is the sentinel a 404 stands for on this route.
	notFound error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return e.notFound
	}
	return nil
}

func (c *Client) Create(ctx context.Context, surveyID string) (*domain.QuizSnapshot, error) {
	var resp quizSessionResponse
	err := c.do(ctx, http.MethodPost, "/api/session", createQuizRequest{SurveyID: surveyID}, &resp, domain.ErrSurveyNotFound)
	if err != nil {
		return nil, err
	}
	return resp.snapshot(), nil
}

func (c *Client) FetchByResumeToken(ctx context.Context, token string) (*domain.QuizSnapshot, error) {
	var resp quizSessionResponse
	err := c.do(ctx, http.MethodGet, "/api/session/"+url.PathEscape(token), nil, &resp, domain.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}
	return resp.snapshot(), nil
}

func (c *Client) SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error {
	raw, err := toMap(value)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/answers", answerRequest{
		SessionID:  sessionID,
		QuestionID: questionID,
		Value:      raw,
	}, nil, domain.ErrSessionNotFound)
}

func (c *Client) UpdateIndex(ctx context.Context, sessionID string, index int) error {
	return c.do(ctx, http.MethodPost, "/api/answers", answerRequest{
		SessionID:   sessionID,
		UpdateIndex: &index,
	}, nil, domain.ErrSessionNotFound)
}

func (c *Client) MarkComplete(ctx context.Context, token string) (time.Time, error) {
	var resp completeResponse
	err := c.do(ctx, http.MethodPatch, "/api/session/"+url.PathEscape(token), completeRequest{Complete: true}, &resp, domain.ErrSessionNotFound)
	return resp.CompletedAt, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, notFound error) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Error, notFound: notFound}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func toMap(v domain.AnswerValue) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answer: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode answer: %w", err)
	}
	return m, nil
}
