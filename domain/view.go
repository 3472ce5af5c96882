package domain

// GoalView is a goal enriched with its owner's display name. Never persisted.
type GoalView struct {
	DailyGoal
	OwnerDisplayName string `json:"owner_display_name"`
}

// TaskView is a task enriched with owner and category names. Never persisted.
type TaskView struct {
	Task
	OwnerDisplayName string `json:"owner_display_name"`
	CategoryName     string `json:"category_name,omitempty"`
}

// Stats summarises the signed-in user's progress.
type Stats struct {
	GoalPercentage   int `json:"goal_percentage"`
	TaskPercentage   int `json:"task_percentage"`
	ConsistencyScore int `json:"consistency_score"`
	CompletedGoals   int `json:"completed_goals"`
	TotalGoals       int `json:"total_goals"`
	CompletedTasks   int `json:"completed_tasks"`
	TotalTasks       int `json:"total_tasks"`
	ActiveMembers    int `json:"active_members"`
}
