package dashboard

import (
	"time"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/usecase/lifecycle"
)

type GoalEntry struct {
	domain.GoalView
	Lifecycle lifecycle.View `json:"lifecycle"`
}

type TaskEntry struct {
	domain.TaskView
	Lifecycle lifecycle.View `json:"lifecycle"`
}

// Snapshot is a point-in-time copy of the board as the viewer sees it.
type Snapshot struct {
	Date        string       `json:"date"`
	Goals       []GoalEntry  `json:"goals"`
	Tasks       []TaskEntry  `json:"tasks"`
	Stats       domain.Stats `json:"stats"`
	Loading     bool         `json:"loading"`
	RefreshedAt time.Time    `json:"refreshed_at"`
}

// Snapshot copies the held collections. Records deleted by this viewer are
// hidden even if the following refresh failed.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Date:        b.date,
		Goals:       make([]GoalEntry, 0, len(b.goals)),
		Tasks:       make([]TaskEntry, 0, len(b.tasks)),
		Stats:       b.stats,
		Loading:     b.loading,
		RefreshedAt: b.refreshedAt,
	}
	for _, g := range b.goals {
		view, ok := b.viewLocked(domain.KindGoal, g.ID)
		if !ok {
			continue
		}
		snap.Goals = append(snap.Goals, GoalEntry{GoalView: g, Lifecycle: view})
	}
	for _, t := range b.tasks {
		view, ok := b.viewLocked(domain.KindTask, t.ID)
		if !ok {
			continue
		}
		snap.Tasks = append(snap.Tasks, TaskEntry{TaskView: t, Lifecycle: view})
	}
	return snap
}

func (b *Board) viewLocked(kind domain.ItemKind, id string) (lifecycle.View, bool) {
	ctrl, ok := b.controllers[itemKey{kind: kind, id: id}]
	if !ok {
		return lifecycle.View{State: lifecycle.StateViewing, Actions: []lifecycle.Action{}}, true
	}
	view := ctrl.View()
	return view, view.State != lifecycle.StateRemoved
}

// Loading reports whether a refresh is in flight.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Stats returns the stats computed by the last applied refresh.
func (b *Board) Stats() domain.Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}
