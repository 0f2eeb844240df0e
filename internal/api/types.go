package api

import (
	"encoding/json"
	"strings"
	"time"

	"qa-forum-web/internal/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

type questionRequest struct {
	Title       string `json:"title"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
}

type answerRequest struct {
	Content string `json:"content"`
}

type voteRequest struct {
	Vote int `json:"vote"`
}

// questionResponse mirrors the backend's question object. Numeric fields use
// json.Number because aggregate counts may arrive as strings.
type questionResponse struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	CategoryID   json.Number `json:"category_id"`
	UserID       json.Number `json:"user_id"`
	Username     string      `json:"username"`
	CreatedAt    string      `json:"created_at"`
	EditedAt     *string     `json:"edited_at"`
	AnswersCount json.Number `json:"answers_count"`
}

type answerResponse struct {
	ID        json.Number `json:"id"`
	Content   string      `json:"content"`
	Upvotes   json.Number `json:"upvotes"`
	Downvotes json.Number `json:"downvotes"`
}

type threadResponse struct {
	Question questionResponse `json:"question"`
	Answers  []answerResponse `json:"answers"`
}

type categoryResponse struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

func questionRequestFrom(in domain.QuestionInput) questionRequest {
	return questionRequest{Title: in.Title, CategoryID: in.CategoryID, Description: in.Description}
}

func (q questionResponse) toDomain() domain.Question {
	question := domain.Question{
		ID:           toInt(q.ID),
		Title:        q.Title,
		Description:  q.Description,
		CategoryID:   toInt(q.CategoryID),
		UserID:       toInt(q.UserID),
		Username:     q.Username,
		CreatedAt:    parseTime(q.CreatedAt),
		AnswersCount: toInt(q.AnswersCount),
	}
	if q.EditedAt != nil {
		if t := parseTime(*q.EditedAt); !t.IsZero() {
			question.EditedAt = &t
		}
	}
	return question
}

func (a answerResponse) toDomain() domain.Answer {
	return domain.Answer{
		ID:        toInt(a.ID),
		Content:   a.Content,
		Upvotes:   toInt(a.Upvotes),
		Downvotes: toInt(a.Downvotes),
	}
}

func toInt(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime returns the zero time for values it cannot read; timestamps are
// display-only.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func userInfoString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	return string(raw)
}
