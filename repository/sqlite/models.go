package sqlite

import (
	"time"

	"github.com/fastygo/consistency/domain"
)

type profileModel struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"uniqueIndex"`
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (profileModel) TableName() string { return "profiles" }

func (m profileModel) toDomain() domain.Profile {
	return domain.Profile{
		ID:          m.ID,
		OwnerID:     m.UserID,
		DisplayName: m.DisplayName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type categoryModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex:idx_categories_name_created_by"`
	CreatedBy string `gorm:"uniqueIndex:idx_categories_name_created_by"`
	CreatedAt time.Time
}

func (categoryModel) TableName() string { return "categories" }

func (m categoryModel) toDomain() domain.Category {
	return domain.Category{ID: m.ID, Name: m.Name, CreatedBy: m.CreatedBy, CreatedAt: m.CreatedAt}
}

type goalModel struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Title     string
	Emoji     string
	Completed bool   `gorm:"default:false"`
	GoalDate  string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (goalModel) TableName() string { return "daily_goals" }

func (m goalModel) toDomain() domain.DailyGoal {
	return domain.DailyGoal{
		ID:        m.ID,
		OwnerID:   m.UserID,
		Title:     m.Title,
		Emoji:     m.Emoji,
		Completed: m.Completed,
		GoalDate:  m.GoalDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type taskModel struct {
	ID         string         `gorm:"primaryKey"`
	UserID     string         `gorm:"index"`
	CategoryID *string        `gorm:"index"`
	Category   *categoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Title      string
	Emoji      string
	Completed  bool `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (taskModel) TableName() string { return "tasks" }

func (m taskModel) toDomain() domain.Task {
	return domain.Task{
		ID:         m.ID,
		OwnerID:    m.UserID,
		Title:      m.Title,
		Emoji:      m.Emoji,
		CategoryID: m.CategoryID,
		Completed:  m.Completed,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func patchColumns(patch domain.ItemPatch, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{"updated_at": now}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Emoji != nil {
		updates["emoji"] = *patch.Emoji
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}
	return updates
}
