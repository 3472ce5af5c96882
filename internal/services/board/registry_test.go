package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/internal/services/notify"
	"github.com/fastygo/consistency/internal/testutil/memstore"
	"github.com/fastygo/consistency/usecase"
	"github.com/fastygo/consistency/usecase/dashboard"
)

func newRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	store := memstore.New()
	factory := func(identity domain.Identity) *dashboard.Board {
		return dashboard.New(identity, dashboard.Deps{
			Store: store.Repositories(),
			Clock: usecase.NewClock(time.UTC),
		})
	}
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(factory, nil, Config{IdleTTL: 10 * time.Minute, SweepInterval: time.Minute})
	r.now = func() time.Time { return now }
	return r, &now
}

func TestAcquireReusesBoardPerSession(t *testing.T) {
	r, _ := newRegistry(t)
	id := domain.Identity{UserID: "u1", SessionID: "s1"}

	first, err := r.Acquire(id)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	second, _ := r.Acquire(id)
	if first != second {
		t.Fatal("expected the same board for the same session")
	}
	other, _ := r.Acquire(domain.Identity{UserID: "u1", SessionID: "s2"})
	if other == first {
		t.Fatal("sessions must not share boards")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 boards, got %d", r.Len())
	}
}

func TestAcquireRejectsAnonymousAndForeignSession(t *testing.T) {
	r, _ := newRegistry(t)
	if _, err := r.Acquire(domain.Identity{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	_, _ = r.Acquire(domain.Identity{UserID: "u1", SessionID: "s1"})
	if _, err := r.Acquire(domain.Identity{UserID: "u2", SessionID: "s1"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a foreign session, got %v", err)
	}
}

func TestReleaseClosesBoard(t *testing.T) {
	r, _ := newRegistry(t)
	id := domain.Identity{UserID: "u1", SessionID: "s1"}
	b, _ := r.Acquire(id)

	if !r.Release("s1") {
		t.Fatal("expected release to find the board")
	}
	if !b.Closed() {
		t.Fatal("released board must be closed")
	}
	if r.Release("s1") {
		t.Fatal("second release must be a no-op")
	}
	fresh, _ := r.Acquire(id)
	if fresh == b || fresh.Closed() {
		t.Fatal("expected a fresh board after release")
	}
}

func TestSweepClosesIdleBoards(t *testing.T) {
	r, now := newRegistry(t)
	idle, _ := r.Acquire(domain.Identity{UserID: "u1", SessionID: "s1"})

	*now = now.Add(8 * time.Minute)
	active, _ := r.Acquire(domain.Identity{UserID: "u2", SessionID: "s2"})

	*now = now.Add(5 * time.Minute)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("expected one idle board, got %d", n)
	}
	if !idle.Closed() || active.Closed() {
		t.Fatal("wrong board closed")
	}
	if err := idle.Refresh(context.Background()); !errors.Is(err, domain.ErrBoardClosed) {
		t.Fatalf("swept board must refuse refresh, got %v", err)
	}
}

func TestStopClosesEverything(t *testing.T) {
	r, _ := newRegistry(t)
	b, _ := r.Acquire(domain.Identity{UserID: "u1", SessionID: "s1"})
	r.Start()
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !b.Closed() || r.Len() != 0 {
		t.Fatal("stop must close every board")
	}
}

func TestUserGoneWaitsForLastBoard(t *testing.T) {
	r, now := newRegistry(t)
	feed := notify.NewFeed(10)
	var gone []string
	r.OnUserGone(feed.Forget)
	r.OnUserGone(func(userID string) { gone = append(gone, userID) })

	_, _ = r.Acquire(domain.Identity{UserID: "u1", SessionID: "laptop"})
	_, _ = r.Acquire(domain.Identity{UserID: "u1", SessionID: "phone"})
	_, _ = r.Acquire(domain.Identity{UserID: "u2", SessionID: "s2"})
	feed.Notify(context.Background(), domain.Notification{UserID: "u1", Title: "Goal completed! 🎉"})

	r.Release("laptop")
	if len(gone) != 0 {
		t.Fatalf("u1 still has a board, got %v", gone)
	}
	*now = now.Add(time.Minute)
	_, _ = r.Acquire(domain.Identity{UserID: "u1", SessionID: "phone"})
	if notes := feed.Drain("u1"); len(notes) != 1 {
		t.Fatalf("notification for the other session was dropped, got %d", len(notes))
	}

	feed.Notify(context.Background(), domain.Notification{UserID: "u1", Title: "Goal unchecked"})
	r.Release("phone")
	if len(gone) != 1 || gone[0] != "u1" {
		t.Fatalf("expected u1 gone once, got %v", gone)
	}
	if notes := feed.Drain("u1"); len(notes) != 0 {
		t.Fatalf("feed should be forgotten, got %d notes", len(notes))
	}

	*now = now.Add(time.Hour)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("expected u2's board swept, got %d", n)
	}
	if len(gone) != 2 || gone[1] != "u2" {
		t.Fatalf("expected u2 gone after the sweep, got %v", gone)
	}
}
