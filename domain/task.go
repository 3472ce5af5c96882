package domain

import "time"

// DefaultTaskEmoji is applied when a task is saved without an emoji.
const DefaultTaskEmoji = "📝"

// Task represents a user-owned item that stays until completed.
type Task struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Emoji      string    `json:"emoji"`
	CategoryID *string   `json:"category_id,omitempty"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasCategory reports whether the task references a category.
func (t *Task) HasCategory() bool {
	return t != nil && t.CategoryID != nil && *t.CategoryID != ""
}
