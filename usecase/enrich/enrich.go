// Package enrich joins goal and task rows with the profiles and categories
// they reference. Each referenced collection is read with one set-membership
// query per call, however many rows there are.
package enrich

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

type Engine struct {
	profiles   repository.ProfileRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func New(profiles repository.ProfileRepository, categories repository.CategoryRepository, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		profiles:   profiles,
		categories: categories,
		logger:     logger,
	}
}

// Goals attaches owner display names. A failed profile lookup degrades every
// row to domain.UnknownUser instead of failing.
func (e *Engine) Goals(ctx context.Context, goals []domain.DailyGoal) []domain.GoalView {
	if len(goals) == 0 {
		return []domain.GoalView{}
	}

	ownerIDs := distinct(len(goals), func(i int) string { return goals[i].OwnerID })
	names := e.displayNames(ctx, ownerIDs)

	views := make([]domain.GoalView, len(goals))
	for i, goal := range goals {
		views[i] = domain.GoalView{
			DailyGoal:        goal,
			OwnerDisplayName: displayName(names, goal.OwnerID),
		}
	}
	return views
}

// Tasks attaches owner display names and category names. The profile and
// category lookups run concurrently; either may fail without failing the other.
func (e *Engine) Tasks(ctx context.Context, tasks []domain.Task) []domain.TaskView {
	if len(tasks) == 0 {
		return []domain.TaskView{}
	}

	ownerIDs := distinct(len(tasks), func(i int) string { return tasks[i].OwnerID })
	categoryIDs := distinct(len(tasks), func(i int) string {
		if !tasks[i].HasCategory() {
			return ""
		}
		return *tasks[i].CategoryID
	})

	var (
		names         map[string]string
		categoryNames map[string]string
		g             errgroup.Group
	)
	g.Go(func() error {
		names = e.displayNames(ctx, ownerIDs)
		return nil
	})
	g.Go(func() error {
		categoryNames = e.categoryNames(ctx, categoryIDs)
		return nil
	})
	_ = g.Wait()

	views := make([]domain.TaskView, len(tasks))
	for i, task := range tasks {
		view := domain.TaskView{
			Task:             task,
			OwnerDisplayName: displayName(names, task.OwnerID),
		}
		if task.HasCategory() {
			view.CategoryName = categoryNames[*task.CategoryID]
		}
		views[i] = view
	}
	return views
}

func (e *Engine) displayNames(ctx context.Context, ownerIDs []string) map[string]string {
	names := make(map[string]string, len(ownerIDs))
	if len(ownerIDs) == 0 || e.profiles == nil {
		return names
	}
	profiles, err := e.profiles.ListByOwnerIDs(ctx, ownerIDs)
	if err != nil {
		e.logger.Warn("profile lookup failed, using default display names",
			zap.Int("owners", len(ownerIDs)), zap.Error(err))
		return names
	}
	for _, p := range profiles {
		names[p.OwnerID] = p.DisplayName
	}
	return names
}

func (e *Engine) categoryNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 || e.categories == nil {
		return names
	}
	categories, err := e.categories.ListByIDs(ctx, ids)
	if err != nil {
		e.logger.Warn("category lookup failed, leaving tasks uncategorized",
			zap.Int("categories", len(ids)), zap.Error(err))
		return names
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func displayName(names map[string]string, ownerID string) string {
	if name, ok := names[ownerID]; ok {
		return name
	}
	return domain.UnknownUser
}

// distinct collects the non-empty values of key(0..n-1) in first-seen order.
func distinct(n int, key func(i int) string) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
