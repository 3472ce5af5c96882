package profile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

// UseCase reads profiles. Writing them belongs to the identity provider's
// onboarding.
type UseCase struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func New(profiles repository.ProfileRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles: profiles,
		logger:   logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := uc.profiles.GetByOwnerID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		uc.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.RemoteError("profiles.select", err)
	}
	return profile, nil
}
