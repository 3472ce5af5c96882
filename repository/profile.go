package repository

import (
	"context"

	"github.com/fastygo/consistency/domain"
)

// ProfileRepository is read-only: profiles are created by the identity provider's onboarding.
type ProfileRepository interface {
	GetByOwnerID(ctx context.Context, ownerID string) (*domain.Profile, error)
	// ListByOwnerIDs is a single set-membership query. Missing owners are simply absent.
	ListByOwnerIDs(ctx context.Context, ownerIDs []string) ([]domain.Profile, error)
}
