package repository

import (
	"context"

	"github.com/fastygo/consistency/domain"
)

// ItemMutator is the id-scoped write surface shared by goals and tasks.
type ItemMutator interface {
	Update(ctx context.Context, id string, patch domain.ItemPatch) error
	Delete(ctx context.Context, id string) error
}
