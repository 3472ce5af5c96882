package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/internal/testutil/memstore"
)

func newUseCase() (*UseCase, *memstore.Sessions) {
	store := memstore.New()
	store.AddProfile("u1", "Ada")
	sessions := memstore.NewSessions()
	return New(store.Repositories().Profiles, sessions, nil), sessions
}

func TestCreateSessionRequiresProfile(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	if _, err := uc.CreateSession(ctx, "nobody", time.Hour); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	session, err := uc.CreateSession(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.ID == "" || session.UserID != "u1" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestIdentify(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	session, _ := uc.CreateSession(ctx, "u1", time.Hour)

	identity, err := uc.Identify(ctx, session.ID, "u1")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if identity.UserID != "u1" || identity.SessionID != session.ID {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if _, err := uc.Identify(ctx, session.ID, "u2"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for mismatched user, got %v", err)
	}
	if _, err := uc.Identify(ctx, "missing", "u1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown session, got %v", err)
	}
}

func TestExpiredSessionIsRemoved(t *testing.T) {
	uc, sessions := newUseCase()
	ctx := context.Background()
	_ = sessions.Save(ctx, &domain.Session{ID: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)})

	if _, err := uc.GetSession(ctx, "old"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := sessions.Get(ctx, "old"); err == nil {
		t.Fatal("expired session must be deleted")
	}
}

func TestSignOutRevokesAndRunsHooks(t *testing.T) {
	uc, sessions := newUseCase()
	ctx := context.Background()
	session, _ := uc.CreateSession(ctx, "u1", time.Hour)

	var torndown []domain.Identity
	uc.OnSignOut(func(_ context.Context, identity domain.Identity) {
		torndown = append(torndown, identity)
	})

	if err := uc.SignOut(ctx, session.Identity()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := sessions.Get(ctx, session.ID); err == nil {
		t.Fatal("session still stored after sign-out")
	}
	if len(torndown) != 1 || torndown[0].SessionID != session.ID {
		t.Fatalf("unexpected hook calls %+v", torndown)
	}
}

func TestRefreshSessionRequiresHolder(t *testing.T) {
	uc, sessions := newUseCase()
	ctx := context.Background()
	session, _ := uc.CreateSession(ctx, "u1", time.Minute)

	if _, err := uc.RefreshSession(ctx, session.ID, "u2", time.Hour); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for another user, got %v", err)
	}
	refreshed, err := uc.RefreshSession(ctx, session.ID, "u1", time.Hour)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	stored, _ := sessions.Get(ctx, session.ID)
	if time.Until(stored.ExpiresAt) < 50*time.Minute || time.Until(refreshed.ExpiresAt) < 50*time.Minute {
		t.Fatalf("session not extended: %v", stored.ExpiresAt)
	}
}
