package service

import (
	"context"
	"sync"

	"qa-forum-web/internal/api"
	"qa-forum-web/internal/domain"
)

// fakeAPI is an in-memory backend that counts reads.
type fakeAPI struct {
	mu         sync.Mutex
	questions  []domain.Question
	answers    map[int64][]domain.Answer
	categories []domain.Category
	nextID     int64
	reads      map[string]int
	registered []domain.Registration
	voteCalls  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		questions: []domain.Question{
			{ID: 1, Title: "first", CategoryID: 1, UserID: 10, Description: "a"},
			{ID: 2, Title: "second", CategoryID: 1, UserID: 20, Description: "b"},
		},
		answers:    map[int64][]domain.Answer{1: {{ID: 100, Content: "yes"}}},
		categories: []domain.Category{{ID: 1, Name: "General"}},
		nextID:     3,
		reads:      map[string]int{},
	}
}

func (f *fakeAPI) read(name string) {
	f.mu.Lock()
	f.reads[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) readCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[name]
}

func (f *fakeAPI) Register(_ context.Context, reg domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, reg)
	return nil
}

func (f *fakeAPI) Login(_ context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	if creds.Password != "secret" {
		return nil, &api.Error{StatusCode: 401, Message: "invalid credentials"}
	}
	return &domain.LoginResult{Token: "tok"}, nil
}

func (f *fakeAPI) ListQuestions(context.Context) ([]domain.Question, error) {
	f.read("questions")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Question, len(f.questions))
	copy(out, f.questions)
	return out, nil
}

func (f *fakeAPI) CreateQuestion(_ context.Context, token string, in domain.QuestionInput) error {
	if token == "" {
		return &api.Error{StatusCode: 401}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, domain.Question{ID: f.nextID, Title: in.Title, CategoryID: in.CategoryID, Description: in.Description})
	f.nextID++
	return nil
}

func (f *fakeAPI) GetQuestion(_ context.Context, id int64) (*domain.QuestionThread, error) {
	f.read("question")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.questions {
		if q.ID == id {
			return &domain.QuestionThread{Question: q, Answers: append([]domain.Answer(nil), f.answers[id]...)}, nil
		}
	}
	return nil, &api.Error{StatusCode: 404, Message: "Question not found"}
}

func (f *fakeAPI) UpdateQuestion(_ context.Context, _ string, id int64, in domain.QuestionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.questions {
		if f.questions[i].ID == id {
			f.questions[i].Title = in.Title
			f.questions[i].CategoryID = in.CategoryID
			f.questions[i].Description = in.Description
			return nil
		}
	}
	return &api.Error{StatusCode: 404}
}

func (f *fakeAPI) DeleteQuestion(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.questions {
		if f.questions[i].ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return &api.Error{StatusCode: 404, Message: "Question not found"}
}

func (f *fakeAPI) AddAnswer(_ context.Context, _ string, questionID int64, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[questionID] = append(f.answers[questionID], domain.Answer{ID: int64(len(f.answers[questionID]) + 200), Content: content})
	return nil
}

func (f *fakeAPI) Vote(_ context.Context, _ string, answerID int64, vote int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voteCalls++
	for qid, answers := range f.answers {
		for i := range answers {
			if answers[i].ID == answerID {
				if vote > 0 {
					f.answers[qid][i].Upvotes++
				} else {
					f.answers[qid][i].Downvotes++
				}
				return nil
			}
		}
	}
	return &api.Error{StatusCode: 404}
}

func (f *fakeAPI) ListCategories(context.Context) ([]domain.Category, error) {
	f.read("categories")
	return f.categories, nil
}

func (f *fakeAPI) votes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voteCalls
}
