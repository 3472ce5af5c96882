package domain

// ItemKind distinguishes the two mutable collections on the board.
type ItemKind string

const (
	KindGoal ItemKind = "goal"
	KindTask ItemKind = "task"
)

// Valid reports whether k names a known collection.
func (k ItemKind) Valid() bool {
	return k == KindGoal || k == KindTask
}

// DefaultEmoji returns the emoji applied when an item of this kind is saved without one.
func (k ItemKind) DefaultEmoji() string {
	if k == KindGoal {
		return DefaultGoalEmoji
	}
	return DefaultTaskEmoji
}

// Item is the kind-agnostic slice of a goal or task that the lifecycle works on.
type Item struct {
	Kind      ItemKind `json:"kind"`
	ID        string   `json:"id"`
	OwnerID   string   `json:"owner_id"`
	Title     string   `json:"title"`
	Emoji     string   `json:"emoji"`
	Completed bool     `json:"completed"`
}

// ItemPatch is a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Title     *string
	Emoji     *string
	Completed *bool
}

// Item projects the goal onto the shared item shape.
func (g DailyGoal) Item() Item {
	return Item{Kind: KindGoal, ID: g.ID, OwnerID: g.OwnerID, Title: g.Title, Emoji: g.Emoji, Completed: g.Completed}
}

// Item projects the task onto the shared item shape.
func (t Task) Item() Item {
	return Item{Kind: KindTask, ID: t.ID, OwnerID: t.OwnerID, Title: t.Title, Emoji: t.Emoji, Completed: t.Completed}
}
