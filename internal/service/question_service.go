package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"qa-forum-web/internal/domain"
	"qa-forum-web/internal/query"
)

// ErrInvalidVote is returned for a vote value other than +1 or -1.
var ErrInvalidVote = errors.New("vote must be 1 or -1")

// QuestionService exposes the forum's question operations to the views.
type QuestionService interface {
	// ListNewestFirst returns all questions in reverse of server order.
	ListNewestFirst(ctx context.Context) ([]domain.Question, error)
	// List returns all questions in server order.
	List(ctx context.Context) ([]domain.Question, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.QuestionThread, error)
	Create(ctx context.Context, token string, in domain.QuestionInput) error
	Update(ctx context.Context, token string, id int64, in domain.QuestionInput) error
	Delete(ctx context.Context, token string, id int64) error
	Answer(ctx context.Context, token string, questionID int64, content string) error
	Vote(ctx context.Context, token string, questionID, answerID int64, vote int) error
}

type questionService struct {
	api   ForumAPI
	cache *query.Cache
}

func NewQuestionService(api ForumAPI, cache *query.Cache) QuestionService {
	return &questionService{api: api, cache: cache}
}

func (s *questionService) ListNewestFirst(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	// the cached slice is shared between requests
	reversed := slices.Clone(questions)
	slices.Reverse(reversed)
	return reversed, nil
}

func (s *questionService) List(ctx context.Context) ([]domain.Question, error) {
	return query.Fetch(ctx, s.cache, query.Questions, s.api.ListQuestions)
}

func (s *questionService) Categories(ctx context.Context) ([]domain.Category, error) {
	return query.Fetch(ctx, s.cache, query.Categories, s.api.ListCategories)
}

func (s *questionService) Get(ctx context.Context, id int64) (*domain.QuestionThread, error) {
	return query.Fetch(ctx, s.cache, query.QuestionKey(id), func(ctx context.Context) (*domain.QuestionThread, error) {
		return s.api.GetQuestion(ctx, id)
	})
}

func (s *questionService) Create(ctx context.Context, token string, in domain.QuestionInput) error {
	in = normalizeInput(in)
	if err := validateQuestionInput(in); err != nil {
		return err
	}
	return s.cache.Run(ctx, createQuestion(), func(ctx context.Context) error {
		return s.api.CreateQuestion(ctx, token, in)
	})
}

func (s *questionService) Update(ctx context.Context, token string, id int64, in domain.QuestionInput) error {
	in = normalizeInput(in)
	if err := validateQuestionInput(in); err != nil {
		return err
	}
	return s.cache.Run(ctx, updateQuestion(id), func(ctx context.Context) error {
		return s.api.UpdateQuestion(ctx, token, id, in)
	})
}

func (s *questionService) Delete(ctx context.Context, token string, id int64) error {
	return s.cache.Run(ctx, deleteQuestion(id), func(ctx context.Context) error {
		return s.api.DeleteQuestion(ctx, token, id)
	})
}

func (s *questionService) Answer(ctx context.Context, token string, questionID int64, content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "Answer cannot be empty."}
	}
	return s.cache.Run(ctx, addAnswer(questionID), func(ctx context.Context) error {
		return s.api.AddAnswer(ctx, token, questionID, content)
	})
}

func (s *questionService) Vote(ctx context.Context, token string, questionID, answerID int64, vote int) error {
	if vote != 1 && vote != -1 {
		return ErrInvalidVote
	}
	// the question id picks the cache entry to refresh, so it has to be the
	// answer's own question
	thread, err := s.Get(ctx, questionID)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(thread.Answers, func(a domain.Answer) bool { return a.ID == answerID }) {
		return &ValidationError{Field: "question_id", Message: "That answer does not belong to this question."}
	}
	return s.cache.Run(ctx, castVote(questionID), func(ctx context.Context) error {
		return s.api.Vote(ctx, token, answerID, vote)
	})
}

func normalizeInput(in domain.QuestionInput) domain.QuestionInput {
	in.Title = strings.TrimSpace(in.Title)
	return in
}

func createQuestion() query.Mutation {
	return query.Mutation{Name: "create question", Invalidates: []query.Key{query.Questions}}
}

func updateQuestion(id int64) query.Mutation {
	return query.Mutation{Name: "update question", Invalidates: []query.Key{query.Questions, query.QuestionKey(id)}}
}

func deleteQuestion(id int64) query.Mutation {
	return query.Mutation{Name: "delete question", Invalidates: []query.Key{query.Questions, query.QuestionKey(id)}}
}

// answers_count on the list changes too
func addAnswer(questionID int64) query.Mutation {
	return query.Mutation{Name: "add answer", Invalidates: []query.Key{query.QuestionKey(questionID), query.Questions}}
}

func castVote(questionID int64) query.Mutation {
	return query.Mutation{Name: "vote", Invalidates: []query.Key{query.QuestionKey(questionID)}}
}
