package goal

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
	"github.com/fastygo/consistency/usecase"
)

// Input is what the add-goal dialog submits.
type Input struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

type UseCase struct {
	goals    repository.GoalRepository
	clock    usecase.Clock
	notifier usecase.Notifier
	logger   *zap.Logger
}

func New(goals repository.GoalRepository, clock usecase.Clock, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		goals:    goals,
		clock:    clock,
		notifier: notifier,
		logger:   logger,
	}
}

// Create adds an uncompleted goal for today owned by the identity. after, when
// given, refreshes the board before the success notification goes out.
func (uc *UseCase) Create(ctx context.Context, identity domain.Identity, in Input, after usecase.Refresher) (*domain.DailyGoal, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = domain.DefaultGoalEmoji
	}

	created, err := uc.goals.Create(ctx, &domain.DailyGoal{
		OwnerID:  identity.UserID,
		Title:    title,
		Emoji:    emoji,
		GoalDate: uc.clock.Today(),
	})
	if err != nil {
		err = domain.RemoteError("daily_goals.insert", err)
		uc.logger.Warn("failed to add goal", zap.String("user_id", identity.UserID), zap.Error(err))
		usecase.Notify(ctx, uc.notifier, identity.UserID, domain.SeverityError, "Error adding goal", domain.Message(err))
		return nil, err
	}

	uc.logger.Debug("goal added", zap.String("goal_id", created.ID), zap.String("goal_date", created.GoalDate))
	if after != nil {
		if err := after.Refresh(ctx); err != nil {
			uc.logger.Warn("refresh after adding goal failed", zap.Error(err))
		}
	}
	usecase.Notify(ctx, uc.notifier, identity.UserID, domain.SeveritySuccess,
		"Daily goal added! 🎯", "Your goal has been added and is visible to the community.")
	return created, nil
}
