package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

// SignOutHook runs after a session has been revoked.
type SignOutHook func(ctx context.Context, identity domain.Identity)

// UseCase is the identity provider: it creates, validates and revokes
// sessions backed by the session store.
type UseCase struct {
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
	logger   *zap.Logger

	mu    sync.RWMutex
	hooks []SignOutHook
}

func New(profiles repository.ProfileRepository, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
	}
}

// OnSignOut registers a hook that runs on every sign-out.
func (uc *UseCase) OnSignOut(hook SignOutHook) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.hooks = append(uc.hooks, hook)
}

// CreateSession signs userID in. Only users that completed onboarding (have a
// profile) may sign in.
func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.profiles.GetByOwnerID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, domain.RemoteError("profiles.select", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	uc.logger.Info("session created", zap.String("user_id", userID), zap.String("session_id", session.ID))
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Identify resolves a session into the identity handed to the core. The
// session must belong to userID.
func (uc *UseCase) Identify(ctx context.Context, sessionID, userID string) (domain.Identity, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, err
	}
	if session.UserID != userID {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return session.Identity(), nil
}

// RefreshSession extends a session held by userID.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID, userID string, ttl time.Duration) (*domain.Session, error) {
	if _, err := uc.Identify(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, ttl); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

// SignOut revokes the session and runs the sign-out hooks.
func (uc *UseCase) SignOut(ctx context.Context, identity domain.Identity) error {
	if err := uc.sessions.Delete(ctx, identity.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}

	uc.mu.RLock()
	hooks := append([]SignOutHook(nil), uc.hooks...)
	uc.mu.RUnlock()
	for _, hook := range hooks {
		hook(ctx, identity)
	}

	uc.logger.Info("signed out", zap.String("user_id", identity.UserID), zap.String("session_id", identity.SessionID))
	return nil
}
