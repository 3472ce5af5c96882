package repository

import (
	"context"
	"time"

	"github.com/fastygo/consistency/domain"
)

// SessionRepository stores the signed-in sessions that own a board.
// Expired or deleted sessions report domain.ErrSessionNotFound.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, sessionID string) error
	// Extend pushes the expiry out by ttl; a non-positive ttl falls back to the store default.
	Extend(ctx context.Context, sessionID string, ttl time.Duration) error
}
