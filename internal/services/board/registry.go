// Package board keeps one dashboard per signed-in session and tears boards
// down on sign-out or after they sit idle.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/usecase/dashboard"
)

// Factory builds a fresh board for an identity.
type Factory func(identity domain.Identity) *dashboard.Board

// Config controls idle teardown.
type Config struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type entry struct {
	board    *dashboard.Board
	lastSeen time.Time
}

// Registry owns the live boards, keyed by session id.
type Registry struct {
	factory Factory
	cfg     Config
	logger  *zap.Logger
	cron    *cron.Cron
	now     func() time.Time

	mu       sync.Mutex
	boards   map[string]*entry
	userGone []func(userID string)
}

func NewRegistry(factory Factory, logger *zap.Logger, cfg Config) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		factory: factory,
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
		boards:  make(map[string]*entry),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.SweepInterval.Seconds()))
	if _, err := r.cron.AddFunc(schedule, func() {
		if n := r.Sweep(); n > 0 {
			r.logger.Info("idle boards closed", zap.Int("count", n))
		}
	}); err != nil {
		r.logger.Error("failed to schedule board sweep", zap.String("schedule", schedule), zap.Error(err))
	}

	return r
}

// Acquire returns the session's board, creating it on first use.
func (r *Registry) Acquire(identity domain.Identity) (*dashboard.Board, error) {
	if !identity.Authenticated() || identity.SessionID == "" {
		return nil, domain.ErrUnauthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.boards[identity.SessionID]; ok && !e.board.Closed() {
		if e.board.Identity().UserID != identity.UserID {
			return nil, domain.ErrUnauthorized
		}
		e.lastSeen = r.now()
		return e.board, nil
	}

	b := r.factory(identity)
	r.boards[identity.SessionID] = &entry{board: b, lastSeen: r.now()}
	r.logger.Debug("board opened",
		zap.String("user_id", identity.UserID),
		zap.String("session_id", identity.SessionID))
	return b, nil
}

// OnUserGone registers fn to run once a user's last board is released or
// swept. Stop does not run it.
func (r *Registry) OnUserGone(fn func(userID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userGone = append(r.userGone, fn)
}

// Release closes and forgets the session's board. It reports whether one existed.
func (r *Registry) Release(sessionID string) bool {
	r.mu.Lock()
	e, ok := r.boards[sessionID]
	delete(r.boards, sessionID)
	var closed []*dashboard.Board
	if ok {
		closed = append(closed, e.board)
	}
	gone, hooks := r.goneLocked(closed)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.board.Close()
	r.notifyGone(gone, hooks)
	return true
}

// Sweep closes boards that have not been acquired within the idle TTL.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var idle []*dashboard.Board
	for id, e := range r.boards {
		if e.lastSeen.Before(cutoff) || e.board.Closed() {
			idle = append(idle, e.board)
			delete(r.boards, id)
		}
	}
	gone, hooks := r.goneLocked(idle)
	r.mu.Unlock()

	for _, b := range idle {
		b.Close()
	}
	r.notifyGone(gone, hooks)
	return len(idle)
}

// goneLocked lists the owners of closed that no longer hold any board.
func (r *Registry) goneLocked(closed []*dashboard.Board) ([]string, []func(string)) {
	if len(closed) == 0 || len(r.userGone) == 0 {
		return nil, nil
	}
	live := make(map[string]struct{}, len(r.boards))
	for _, e := range r.boards {
		live[e.board.Identity().UserID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(closed))
	var gone []string
	for _, b := range closed {
		userID := b.Identity().UserID
		if _, ok := live[userID]; ok {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		gone = append(gone, userID)
	}
	return gone, append(([]func(string))(nil), r.userGone...)
}

func (r *Registry) notifyGone(gone []string, hooks []func(string)) {
	for _, userID := range gone {
		for _, fn := range hooks {
			fn(userID)
		}
	}
}

// Len returns the number of live boards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// Start launches the sweep scheduler.
func (r *Registry) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("board registry started", zap.Duration("idle_ttl", r.cfg.IdleTTL))
}

// Stop halts the scheduler and closes every board.
func (r *Registry) Stop(ctx context.Context) error {
	if r == nil || r.cron == nil {
		return nil
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}

	r.mu.Lock()
	boards := r.boards
	r.boards = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range boards {
		e.board.Close()
	}

	r.logger.Info("board registry stopped", zap.Int("closed", len(boards)))
	return nil
}
