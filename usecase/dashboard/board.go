// Package dashboard holds the per-session board: the enriched goal and task
// collections, the stats derived from them and one lifecycle controller per
// record. The collections are only written by Refresh.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
	"github.com/fastygo/consistency/usecase"
	"github.com/fastygo/consistency/usecase/category"
	"github.com/fastygo/consistency/usecase/enrich"
	"github.com/fastygo/consistency/usecase/goal"
	"github.com/fastygo/consistency/usecase/lifecycle"
	"github.com/fastygo/consistency/usecase/stats"
	"github.com/fastygo/consistency/usecase/task"
)

// Deps are shared by every board in the process.
type Deps struct {
	Store      repository.Store
	Enricher   *enrich.Engine
	Categories *category.Resolver
	Goals      *goal.UseCase
	Tasks      *task.UseCase
	Notifier   usecase.Notifier
	Clock      usecase.Clock
	Logger     *zap.Logger
}

type itemKey struct {
	kind domain.ItemKind
	id   string
}

type Board struct {
	identity domain.Identity
	deps     Deps
	logger   *zap.Logger

	lifetime context.Context
	cancel   context.CancelFunc

	dispatcher *usecase.Dispatcher

	mu          sync.RWMutex
	goals       []domain.GoalView
	tasks       []domain.TaskView
	stats       domain.Stats
	controllers map[itemKey]*lifecycle.Controller
	generation  uint64
	loading     bool
	loaded      bool
	date        string
	refreshedAt time.Time
}

func New(identity domain.Identity, deps Deps) *Board {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Enricher == nil {
		deps.Enricher = enrich.New(deps.Store.Profiles, deps.Store.Categories, logger)
	}
	lifetime, cancel := context.WithCancel(context.Background())
	b := &Board{
		identity:    identity,
		deps:        deps,
		logger:      logger.With(zap.String("user_id", identity.UserID), zap.String("session_id", identity.SessionID)),
		lifetime:    lifetime,
		cancel:      cancel,
		goals:       []domain.GoalView{},
		tasks:       []domain.TaskView{},
		controllers: make(map[itemKey]*lifecycle.Controller),
	}
	b.dispatcher = b.newDispatcher()
	return b
}

func (b *Board) Identity() domain.Identity {
	return b.identity
}

// Close tears the board down. Refreshes still in flight complete against the
// store but their results are discarded.
func (b *Board) Close() {
	b.cancel()
	b.logger.Debug("board closed")
}

func (b *Board) Closed() bool {
	return b.lifetime.Err() != nil
}

// Done is closed when the board is torn down.
func (b *Board) Done() <-chan struct{} {
	return b.lifetime.Done()
}

// Load runs the initial refresh once.
func (b *Board) Load(ctx context.Context) error {
	b.mu.RLock()
	loaded := b.loaded
	b.mu.RUnlock()
	if loaded {
		return nil
	}
	return b.Refresh(ctx)
}

// Refresh fetches today's goals and all tasks concurrently, enriches both and
// recomputes stats. A collection whose fetch fails keeps its previous
// snapshot; the failure is logged and returned.
func (b *Board) Refresh(ctx context.Context) error {
	if b.Closed() {
		return domain.ErrBoardClosed
	}

	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.loading = true
	b.mu.Unlock()

	today := b.deps.Clock.Today()

	var (
		goals   []domain.GoalView
		tasks   []domain.TaskView
		goalErr error
		taskErr error
		g       errgroup.Group
	)
	g.Go(func() error {
		rows, err := b.deps.Store.Goals.List(ctx, repository.GoalFilter{GoalDate: today})
		if err != nil {
			goalErr = domain.RemoteError("daily_goals.select", err)
			b.logger.Error("failed to fetch goals", zap.String("collection", "daily_goals"), zap.Error(err))
			return nil
		}
		goals = b.deps.Enricher.Goals(ctx, rows)
		return nil
	})
	g.Go(func() error {
		rows, err := b.deps.Store.Tasks.List(ctx, repository.TaskFilter{})
		if err != nil {
			taskErr = domain.RemoteError("tasks.select", err)
			b.logger.Error("failed to fetch tasks", zap.String("collection", "tasks"), zap.Error(err))
			return nil
		}
		tasks = b.deps.Enricher.Tasks(ctx, rows)
		return nil
	})
	_ = g.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Closed() {
		b.logger.Debug("board closed during refresh, dropping results")
		return domain.ErrBoardClosed
	}
	if gen != b.generation {
		// a newer refresh started while this one was in flight
		return nil
	}

	if goalErr == nil {
		b.goals = goals
	}
	if taskErr == nil {
		b.tasks = tasks
	}
	b.reconcileLocked()
	b.stats = stats.Compute(b.goals, b.tasks, b.identity.UserID)
	b.date = today
	b.loaded = true
	b.loading = false
	b.refreshedAt = b.deps.Clock.Time()

	return errors.Join(goalErr, taskErr)
}

// reconcileLocked keeps exactly one controller per held record, carrying over
// the state of records that are still present.
func (b *Board) reconcileLocked() {
	seen := make(map[itemKey]struct{}, len(b.goals)+len(b.tasks))
	for _, g := range b.goals {
		b.syncLocked(g.Item(), b.deps.Store.Goals, seen)
	}
	for _, t := range b.tasks {
		b.syncLocked(t.Item(), b.deps.Store.Tasks, seen)
	}
	for key := range b.controllers {
		if _, ok := seen[key]; !ok {
			delete(b.controllers, key)
		}
	}
}

func (b *Board) syncLocked(item domain.Item, mutator repository.ItemMutator, seen map[itemKey]struct{}) {
	key := itemKey{kind: item.Kind, id: item.ID}
	seen[key] = struct{}{}
	if ctrl, ok := b.controllers[key]; ok {
		ctrl.Sync(item)
		return
	}
	b.controllers[key] = lifecycle.New(item, b.identity, lifecycle.Deps{
		Mutator:   mutator,
		Refresher: b,
		Notifier:  b.deps.Notifier,
		Logger:    b.logger,
	})
}

// Item returns the controller for one record on the board.
func (b *Board) Item(kind domain.ItemKind, id string) (*lifecycle.Controller, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ctrl, ok := b.controllers[itemKey{kind: kind, id: id}]
	if !ok || ctrl.State() == lifecycle.StateRemoved {
		return nil, domain.ErrItemNotFound
	}
	return ctrl, nil
}

// AddGoal creates a goal for today and refreshes the board on success.
func (b *Board) AddGoal(ctx context.Context, in goal.Input) (*domain.DailyGoal, error) {
	if b.Closed() {
		return nil, domain.ErrBoardClosed
	}
	return b.deps.Goals.Create(ctx, b.identity, in, b)
}

// AddTask creates a task, resolving a new category name first when given,
// and refreshes the board on success.
func (b *Board) AddTask(ctx context.Context, in task.Input) (*domain.Task, error) {
	if b.Closed() {
		return nil, domain.ErrBoardClosed
	}
	return b.deps.Tasks.Create(ctx, b.identity, in, b)
}

// CategoryPicker is what the add-task dialog offers.
type CategoryPicker struct {
	Categories []domain.Category `json:"categories"`
	DefaultID  string            `json:"default_id,omitempty"`
}

func (b *Board) Categories(ctx context.Context) (*CategoryPicker, error) {
	categories, err := b.deps.Categories.ListForOwner(ctx, b.identity.UserID)
	if err != nil {
		return nil, err
	}
	return &CategoryPicker{
		Categories: categories,
		DefaultID:  category.DefaultCategoryID(categories),
	}, nil
}
