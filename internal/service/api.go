package service

import (
	"context"

	"qa-forum-web/internal/domain"
)

// ForumAPI is the backend surface the services depend on. *api.Client
// satisfies it.
type ForumAPI interface {
	Register(ctx context.Context, reg domain.Registration) error
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, token string, in domain.QuestionInput) error
	GetQuestion(ctx context.Context, id int64) (*domain.QuestionThread, error)
	UpdateQuestion(ctx context.Context, token string, id int64, in domain.QuestionInput) error
	DeleteQuestion(ctx context.Context, token string, id int64) error
	AddAnswer(ctx context.Context, token string, questionID int64, content string) error
	Vote(ctx context.Context, token string, answerID int64, vote int) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
