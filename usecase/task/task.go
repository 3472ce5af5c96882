package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
	"github.com/fastygo/consistency/usecase"
	"github.com/fastygo/consistency/usecase/category"
)

// Input is what the add-task dialog submits. A non-blank NewCategory wins
// over CategoryID.
type Input struct {
	Title       string `json:"title"`
	Emoji       string `json:"emoji"`
	CategoryID  string `json:"category_id"`
	NewCategory string `json:"new_category"`
}

type UseCase struct {
	tasks    repository.TaskRepository
	resolver *category.Resolver
	notifier usecase.Notifier
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, resolver *category.Resolver, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		resolver: resolver,
		notifier: notifier,
		logger:   logger,
	}
}

// Create inserts the task, then runs after (when given) before reporting
// success, so the notification follows the refreshed board.
func (uc *UseCase) Create(ctx context.Context, identity domain.Identity, in Input, after usecase.Refresher) (*domain.Task, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = domain.DefaultTaskEmoji
	}

	categoryID, err := uc.category(ctx, identity, in)
	if err != nil {
		return nil, uc.fail(ctx, identity, err)
	}

	task := &domain.Task{
		OwnerID: identity.UserID,
		Title:   title,
		Emoji:   emoji,
	}
	if categoryID != "" {
		task.CategoryID = &categoryID
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, uc.fail(ctx, identity, domain.RemoteError("tasks.insert", err))
	}

	uc.logger.Debug("task added", zap.String("task_id", created.ID), zap.Bool("categorized", created.HasCategory()))
	if after != nil {
		if err := after.Refresh(ctx); err != nil {
			uc.logger.Warn("refresh after adding task failed", zap.Error(err))
		}
	}
	usecase.Notify(ctx, uc.notifier, identity.UserID, domain.SeveritySuccess,
		"Task added! 📝", "Your task has been added and is visible to the community.")
	return created, nil
}

// category picks the task's category: a new name goes through the resolver,
// a selected id must belong to the owner.
func (uc *UseCase) category(ctx context.Context, identity domain.Identity, in Input) (string, error) {
	if strings.TrimSpace(in.NewCategory) != "" {
		return uc.resolver.Resolve(ctx, in.NewCategory, identity.UserID)
	}
	selected := strings.TrimSpace(in.CategoryID)
	if selected == "" {
		return "", nil
	}
	if err := uc.resolver.Owned(ctx, selected, identity.UserID); err != nil {
		return "", err
	}
	return selected, nil
}

func (uc *UseCase) fail(ctx context.Context, identity domain.Identity, err error) error {
	uc.logger.Warn("failed to add task", zap.String("user_id", identity.UserID), zap.Error(err))
	usecase.Notify(ctx, uc.notifier, identity.UserID, domain.SeverityError, "Error adding task", domain.Message(err))
	return err
}
