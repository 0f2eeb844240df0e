package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type backendUser struct {
	ID       int64
	Username string
	Role     string
	Password string
}

type backendQuestion struct {
	ID          int64
	Title       string
	Description string
	CategoryID  int64
	UserID      int64
	Username    string
	CreatedAt   time.Time
	EditedAt    *time.Time
}

type backendAnswer struct {
	ID        int64
	Content   string
	Upvotes   int64
	Downvotes int64
}

// fakeBackend speaks the forum's REST API over httptest.
type fakeBackend struct {
	t *testing.T

	mu         sync.Mutex
	users      map[string]backendUser
	questions  []backendQuestion
	answers    map[int64][]backendAnswer
	nextID     int64
	registered []map[string]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &fakeBackend{
		t: t,
		users: map[string]backendUser{
			"alice@example.com": {ID: 10, Username: "alice1", Role: "user", Password: "passw0rd123"},
			"bob@example.com":   {ID: 20, Username: "bobby1", Role: "user", Password: "passw0rd123"},
			"root@example.com":  {ID: 1, Username: "rootadmin", Role: "admin", Password: "passw0rd123"},
		},
		questions: []backendQuestion{
			{ID: 1, Title: "Alice asks", Description: "first", CategoryID: 1, UserID: 10, Username: "alice1", CreatedAt: created},
			{ID: 2, Title: "Bob asks", Description: "second", CategoryID: 1, UserID: 20, Username: "bobby1", CreatedAt: created},
		},
		answers: map[int64][]backendAnswer{
			1: {{ID: 100, Content: "an answer"}},
		},
		nextID: 3,
	}
}

func (b *fakeBackend) token(u backendUser) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
	}).SignedString([]byte("backend-secret"))
	require.NoError(b.t, err)
	return signed
}

func (b *fakeBackend) caller(r *http.Request) (int64, string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return 0, "", false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return 0, "", false
	}
	id, _ := claims["id"].(float64)
	role, _ := claims["role"].(string)
	return int64(id), role, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func questionJSON(q backendQuestion, answers int) map[string]any {
	out := map[string]any{
		"id":            q.ID,
		"title":         q.Title,
		"description":   q.Description,
		"category_id":   q.CategoryID,
		"user_id":       q.UserID,
		"username":      q.Username,
		"created_at":    q.CreatedAt.Format(time.RFC3339),
		"edited_at":     nil,
		"answers_count": strconv.Itoa(answers),
	}
	if q.EditedAt != nil {
		out["edited_at"] = q.EditedAt.Format(time.RFC3339)
	}
	return out
}

func (b *fakeBackend) indexOf(id int64) int {
	for i, q := range b.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (b *fakeBackend) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		u, ok := b.users[body["email"]]
		b.mu.Unlock()
		if !ok || u.Password != body["password"] {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": b.token(u),
			"user":  map[string]any{"id": u.ID, "username": u.Username},
		})
	})

	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		if body["username"] == "takenname" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already taken"})
			return
		}
		b.registered = append(b.registered, body)
		writeJSON(w, http.StatusCreated, map[string]string{"message": "ok"})
	})

	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "General"}, {"id": 2, "name": "Go"}})
	})

	mux.HandleFunc("GET /api/questions", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]map[string]any, 0, len(b.questions))
		for _, q := range b.questions {
			out = append(out, questionJSON(q, len(b.answers[q.ID])))
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc("POST /api/questions", func(w http.ResponseWriter, r *http.Request) {
		id, _, ok := b.caller(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		var body struct {
			Title       string `json:"title"`
			CategoryID  int64  `json:"category_id"`
			Description string `json:"description"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		var username string
		for _, u := range b.users {
			if u.ID == id {
				username = u.Username
			}
		}
		b.questions = append(b.questions, backendQuestion{
			ID: b.nextID, Title: body.Title, Description: body.Description, CategoryID: body.CategoryID,
			UserID: id, Username: username, CreatedAt: time.Now().UTC(),
		})
		b.nextID++
		writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
	})

	mux.HandleFunc("GET /api/questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.indexOf(id)
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Question not found"})
			return
		}
		answers := make([]map[string]any, 0)
		for _, a := range b.answers[id] {
			answers = append(answers, map[string]any{
				"id": a.ID, "content": a.Content, "upvotes": a.Upvotes, "downvotes": a.Downvotes,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"question": questionJSON(b.questions[i], len(answers)),
			"answers":  answers,
		})
	})

	mux.HandleFunc("PUT /api/questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mutateQuestion(w, r, func(i int) {
			var body struct {
				Title       string `json:"title"`
				CategoryID  int64  `json:"category_id"`
				Description string `json:"description"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			now := time.Now().UTC()
			q := &b.questions[i]
			q.Title, q.CategoryID, q.Description, q.EditedAt = body.Title, body.CategoryID, body.Description, &now
		})
	})

	mux.HandleFunc("DELETE /api/questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mutateQuestion(w, r, func(i int) {
			b.questions = append(b.questions[:i], b.questions[i+1:]...)
		})
	})

	mux.HandleFunc("POST /api/questions/{id}/answers", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := b.caller(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.answers[id] = append(b.answers[id], backendAnswer{ID: b.nextID, Content: body["content"]})
		b.nextID++
		writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
	})

	mux.HandleFunc("POST /api/answers/{id}/vote", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := b.caller(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body struct {
			Vote int `json:"vote"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		for qid, answers := range b.answers {
			for i := range answers {
				if answers[i].ID != id {
					continue
				}
				if body.Vote > 0 {
					b.answers[qid][i].Upvotes++
				} else {
					b.answers[qid][i].Downvotes++
				}
				writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Answer not found"})
	})

	return mux
}

// mutateQuestion applies fn when the caller owns the question or is an admin.
func (b *fakeBackend) mutateQuestion(w http.ResponseWriter, r *http.Request, fn func(i int)) {
	caller, role, ok := b.caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Question not found"})
		return
	}
	if b.questions[i].UserID != caller && role != "admin" {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": fmt.Sprintf("Not allowed to modify question %d", id)})
		return
	}
	fn(i)
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (b *fakeBackend) registrations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.registered)
}
