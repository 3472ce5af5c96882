// Package category resolves free-text category names to category ids.
package category

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

type Resolver struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func New(categories repository.CategoryRepository, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		categories: categories,
		logger:     logger,
	}
}

// Resolve returns the id of the owner's category called name, creating it
// when it does not exist yet. A blank name resolves to "" (uncategorized).
//
// The store enforces uniqueness of (name, owner). When a concurrent caller
// wins the insert, the duplicate error is turned into a second lookup.
func (r *Resolver) Resolve(ctx context.Context, name, ownerID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if ownerID == "" {
		return "", domain.ErrUnauthorized
	}

	if id, found, err := r.find(ctx, name, ownerID); err != nil || found {
		return id, err
	}

	created, err := r.categories.Create(ctx, &domain.Category{Name: name, CreatedBy: ownerID})
	switch {
	case err == nil:
		r.logger.Debug("category created",
			zap.String("category_id", created.ID),
			zap.String("owner_id", ownerID))
		return created.ID, nil
	case errors.Is(err, domain.ErrCategoryExists):
		r.logger.Debug("category created concurrently, re-selecting",
			zap.String("name", name),
			zap.String("owner_id", ownerID))
		id, found, findErr := r.find(ctx, name, ownerID)
		if findErr != nil {
			return "", findErr
		}
		if !found {
			return "", domain.RemoteError("categories.select", err)
		}
		return id, nil
	default:
		return "", domain.RemoteError("categories.insert", err)
	}
}

func (r *Resolver) find(ctx context.Context, name, ownerID string) (string, bool, error) {
	existing, err := r.categories.FindByName(ctx, name, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return "", false, nil
		}
		return "", false, domain.RemoteError("categories.select", err)
	}
	return existing.ID, true, nil
}

// Owned checks that categoryID names one of the owner's categories.
func (r *Resolver) Owned(ctx context.Context, categoryID, ownerID string) error {
	found, err := r.categories.ListByIDs(ctx, []string{categoryID})
	if err != nil {
		return domain.RemoteError("categories.select", err)
	}
	for _, c := range found {
		if c.ID == categoryID && c.CreatedBy == ownerID {
			return nil
		}
	}
	return domain.ErrUnknownCategory
}

// ListForOwner returns the categories the owner can pick from, ordered by name.
func (r *Resolver) ListForOwner(ctx context.Context, ownerID string) ([]domain.Category, error) {
	categories, err := r.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.RemoteError("categories.select", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// DefaultCategoryID picks the "Uncategorized" entry, or "" when there is none.
func DefaultCategoryID(categories []domain.Category) string {
	for _, c := range categories {
		if c.Name == domain.UncategorizedName {
			return c.ID
		}
	}
	return ""
}
