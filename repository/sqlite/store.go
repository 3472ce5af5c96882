// Package sqlite implements the remote store contract on a local SQLite file
// through gorm. It exists for development and single-node installs; the
// Postgres store is the production backend. Driver errors are returned as is
// so their text reaches the user unchanged.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

// Migrate creates the four collections, including the unique (name, created_by)
// index and the tasks.category_id foreign key.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&profileModel{}, &categoryModel{}, &goalModel{}, &taskModel{}); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// NewStore wires every collection onto one gorm handle.
func NewStore(db *gorm.DB) repository.Store {
	return repository.Store{
		Profiles:   &ProfileRepository{db: db},
		Categories: &CategoryRepository{db: db},
		Goals:      &GoalRepository{db: db},
		Tasks:      &TaskRepository{db: db},
	}
}

// ProfileRepository reads profiles.
type ProfileRepository struct {
	db *gorm.DB
}

func (r *ProfileRepository) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Profile, error) {
	var m profileModel
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&m).Error
	switch {
	case err == nil:
		profile := m.toDomain()
		return &profile, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrProfileNotFound
	default:
		return nil, err
	}
}

func (r *ProfileRepository) ListByOwnerIDs(ctx context.Context, ownerIDs []string) ([]domain.Profile, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var models []profileModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ownerIDs).Find(&models).Error; err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(models))
	for _, m := range models {
		profiles = append(profiles, m.toDomain())
	}
	return profiles, nil
}

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func (r *CategoryRepository) FindByName(ctx context.Context, name, createdBy string) (*domain.Category, error) {
	var m categoryModel
	err := r.db.WithContext(ctx).Where("name = ? AND created_by = ?", name, createdBy).First(&m).Error
	switch {
	case err == nil:
		category := m.toDomain()
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrCategoryNotFound
	default:
		return nil, err
	}
}

func (r *CategoryRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []categoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return toCategories(models), nil
}

func (r *CategoryRepository) ListByOwner(ctx context.Context, createdBy string) ([]domain.Category, error) {
	var models []categoryModel
	if err := r.db.WithContext(ctx).Where("created_by = ?", createdBy).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toCategories(models), nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	m := categoryModel{ID: category.ID, Name: category.Name, CreatedBy: category.CreatedBy}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	created := m.toDomain()
	return &created, nil
}

func toCategories(models []categoryModel) []domain.Category {
	categories := make([]domain.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, m.toDomain())
	}
	return categories
}

// GoalRepository handles CRUD for daily goals.
type GoalRepository struct {
	db *gorm.DB
}

func (r *GoalRepository) List(ctx context.Context, filter repository.GoalFilter) ([]domain.DailyGoal, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.GoalDate != "" {
		query = query.Where("goal_date = ?", filter.GoalDate)
	}
	if filter.OwnerID != "" {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	var models []goalModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	goals := make([]domain.DailyGoal, 0, len(models))
	for _, m := range models {
		goals = append(goals, m.toDomain())
	}
	return goals, nil
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.DailyGoal) (*domain.DailyGoal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	m := goalModel{
		ID:        goal.ID,
		UserID:    goal.OwnerID,
		Title:     goal.Title,
		Emoji:     goal.Emoji,
		Completed: goal.Completed,
		GoalDate:  goal.GoalDate,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	created := m.toDomain()
	return &created, nil
}

func (r *GoalRepository) Update(ctx context.Context, id string, patch domain.ItemPatch) error {
	res := r.db.WithContext(ctx).Model(&goalModel{}).Where("id = ?", id).Updates(patchColumns(patch, time.Now()))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&goalModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.OwnerID != "" {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	var models []taskModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, m.toDomain())
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	m := taskModel{
		ID:         task.ID,
		UserID:     task.OwnerID,
		CategoryID: task.CategoryID,
		Title:      task.Title,
		Emoji:      task.Emoji,
		Completed:  task.Completed,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	created := m.toDomain()
	return &created, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.ItemPatch) error {
	res := r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", id).Updates(patchColumns(patch, time.Now()))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&taskModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

var (
	_ repository.ProfileRepository  = (*ProfileRepository)(nil)
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.GoalRepository     = (*GoalRepository)(nil)
	_ repository.TaskRepository     = (*TaskRepository)(nil)
)
