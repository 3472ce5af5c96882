package repository

import (
	"context"

	"github.com/fastygo/consistency/domain"
)

type TaskFilter struct {
	OwnerID string
}

type TaskRepository interface {
	ItemMutator
	// List returns tasks newest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
}

// Store bundles the four collections of the remote store.
type Store struct {
	Profiles   ProfileRepository
	Categories CategoryRepository
	Goals      GoalRepository
	Tasks      TaskRepository
}
