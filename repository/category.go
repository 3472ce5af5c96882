package repository

import (
	"context"

	"github.com/fastygo/consistency/domain"
)

type CategoryRepository interface {
	// FindByName returns domain.ErrCategoryNotFound when no (name, createdBy) match exists.
	FindByName(ctx context.Context, name, createdBy string) (*domain.Category, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Category, error)
	ListByOwner(ctx context.Context, createdBy string) ([]domain.Category, error)
	// Create returns domain.ErrCategoryExists when the (name, createdBy) pair is taken.
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}
