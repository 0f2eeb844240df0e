package domain

import "time"

// Question is a forum question as returned by the backend.
type Question struct {
	ID           int64
	Title        string
	Description  string
	CategoryID   int64
	UserID       int64
	Username     string
	CreatedAt    time.Time
	EditedAt     *time.Time
	AnswersCount int64
}

// Answer is a reply attached to a question. Answers are only ever voted on.
type Answer struct {
	ID        int64
	Content   string
	Upvotes   int64
	Downvotes int64
}

// QuestionThread is a question together with its answers.
type QuestionThread struct {
	Question Question
	Answers  []Answer
}

// Category classifies questions.
type Category struct {
	ID   int64
	Name string
}

// QuestionInput carries the editable fields of a question.
type QuestionInput struct {
	Title       string
	CategoryID  int64
	Description string
}

// Credentials are submitted to the login endpoint.
type Credentials struct {
	Email    string
	Password string
}

// Registration is submitted to the register endpoint.
type Registration struct {
	Username string
	Email    string
	Password string
}

// LoginResult is what the backend hands back on a successful login.
type LoginResult struct {
	Token    string
	UserInfo string
}
