package domain

import "time"

// DateLayout is the calendar-date format used for goal_date.
const DateLayout = "2006-01-02"

// DefaultGoalEmoji is applied when a goal is saved without an emoji.
const DefaultGoalEmoji = "🎯"

// DailyGoal is a goal that only counts on its GoalDate.
type DailyGoal struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Emoji     string    `json:"emoji"`
	Completed bool      `json:"completed"`
	GoalDate  string    `json:"goal_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFor reports whether the goal belongs to the calendar date of t.
func (g *DailyGoal) IsFor(t time.Time) bool {
	return g != nil && g.GoalDate == t.Format(DateLayout)
}
