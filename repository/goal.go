package repository

import (
	"context"

	"github.com/fastygo/consistency/domain"
)

type GoalFilter struct {
	// GoalDate restricts the result to one calendar date (YYYY-MM-DD). Empty means all dates.
	GoalDate string
	OwnerID  string
}

type GoalRepository interface {
	ItemMutator
	// List returns goals newest first.
	List(ctx context.Context, filter GoalFilter) ([]domain.DailyGoal, error)
	Create(ctx context.Context, goal *domain.DailyGoal) (*domain.DailyGoal, error)
}
