package repository

import (
	"context"
	"errors"
	"time"

	"qa-forum-web/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SessionRepository persists browser sessions and the bearer token they carry.
type SessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// Touch marks the session as used now.
	Touch(ctx context.Context, id string) error
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}
