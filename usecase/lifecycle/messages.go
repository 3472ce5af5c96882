package lifecycle

import "github.com/fastygo/consistency/domain"

type messages struct {
	completedTitle, completedBody     string
	uncompletedTitle, uncompletedBody string
	updatedTitle, updatedBody         string
	updateFailed                      string
	deletedTitle, deletedBody         string
	deleteFailed                      string
}

var kindMessages = map[domain.ItemKind]messages{
	domain.KindGoal: {
		completedTitle:   "Goal completed! 🎉",
		completedBody:    "Great job on your consistency!",
		uncompletedTitle: "Goal unchecked",
		uncompletedBody:  "Keep going, you've got this!",
		updatedTitle:     "Goal updated",
		updatedBody:      "Your goal has been successfully updated.",
		updateFailed:     "Error updating goal",
		deletedTitle:     "Goal deleted",
		deletedBody:      "Your goal has been removed.",
		deleteFailed:     "Error deleting goal",
	},
	domain.KindTask: {
		completedTitle:   "Task completed! 🎉",
		completedBody:    "One more task down!",
		uncompletedTitle: "Task unchecked",
		uncompletedBody:  "Keep working on it!",
		updatedTitle:     "Task updated",
		updatedBody:      "Your task has been successfully updated.",
		updateFailed:     "Error updating task",
		deletedTitle:     "Task deleted",
		deletedBody:      "Your task has been removed.",
		deleteFailed:     "Error deleting task",
	},
}

const toggleFailed = "Error"

func messagesFor(kind domain.ItemKind) messages {
	if m, ok := kindMessages[kind]; ok {
		return m
	}
	return kindMessages[domain.KindTask]
}
