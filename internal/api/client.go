// Package api talks to the forum REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"qa-forum-web/internal/domain"
)

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Message returns the server-provided message carried by err, if any.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0 for transport errors.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client is bound to a single backend origin. It performs no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and decodes a 2xx JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	body := registerRequest{Username: reg.Username, Email: reg.Email, Password: reg.Password}
	return c.do(ctx, http.MethodPost, "/api/register", "", body, nil)
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	var resp loginResponse
	body := loginRequest{Email: creds.Email, Password: creds.Password}
	if err := c.do(ctx, http.MethodPost, "/api/login", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &domain.LoginResult{Token: resp.Token, UserInfo: userInfoString(resp.User)}, nil
}

func (c *Client) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var resp []questionResponse
	if err := c.do(ctx, http.MethodGet, "/api/questions", "", nil, &resp); err != nil {
		return nil, err
	}
	questions := make([]domain.Question, len(resp))
	for i := range resp {
		questions[i] = resp[i].toDomain()
	}
	return questions, nil
}

func (c *Client) CreateQuestion(ctx context.Context, token string, in domain.QuestionInput) error {
	return c.do(ctx, http.MethodPost, "/api/questions", token, questionRequestFrom(in), nil)
}

func (c *Client) GetQuestion(ctx context.Context, id int64) (*domain.QuestionThread, error) {
	var resp threadResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/questions/%d", id), "", nil, &resp); err != nil {
		return nil, err
	}
	thread := &domain.QuestionThread{
		Question: resp.Question.toDomain(),
		Answers:  make([]domain.Answer, len(resp.Answers)),
	}
	for i := range resp.Answers {
		thread.Answers[i] = resp.Answers[i].toDomain()
	}
	return thread, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, token string, id int64, in domain.QuestionInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/questions/%d", id), token, questionRequestFrom(in), nil)
}

func (c *Client) DeleteQuestion(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/questions/%d", id), token, nil, nil)
}

func (c *Client) AddAnswer(ctx context.Context, token string, questionID int64, content string) error {
	path := fmt.Sprintf("/api/questions/%d/answers", questionID)
	return c.do(ctx, http.MethodPost, path, token, answerRequest{Content: content}, nil)
}

func (c *Client) Vote(ctx context.Context, token string, answerID int64, vote int) error {
	path := fmt.Sprintf("/api/answers/%d/vote", answerID)
	return c.do(ctx, http.MethodPost, path, token, voteRequest{Vote: vote}, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp []categoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", "", nil, &resp); err != nil {
		return nil, err
	}
	categories := make([]domain.Category, len(resp))
	for i := range resp {
		categories[i] = domain.Category{ID: toInt(resp[i].ID), Name: resp[i].Name}
	}
	return categories, nil
}
