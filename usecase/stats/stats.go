// Package stats derives progress figures from the collections a board holds.
package stats

import "github.com/fastygo/consistency/domain"

// Compute scopes goals and tasks to userID and returns completion percentages
// and the combined consistency score. Empty collections count as 0%.
//
// The combined score is the half-up rounding of the mean of the two exact
// completion ratios, so 2/3 goals and 1/2 tasks give 67, 50 and 58.
func Compute(goals []domain.GoalView, tasks []domain.TaskView, userID string) domain.Stats {
	var s domain.Stats

	members := make(map[string]struct{}, len(goals))
	for _, g := range goals {
		members[g.OwnerID] = struct{}{}
		if g.OwnerID != userID {
			continue
		}
		s.TotalGoals++
		if g.Completed {
			s.CompletedGoals++
		}
	}
	s.ActiveMembers = len(members)

	for _, t := range tasks {
		if t.OwnerID != userID {
			continue
		}
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
		}
	}

	s.GoalPercentage = Percentage(s.CompletedGoals, s.TotalGoals)
	s.TaskPercentage = Percentage(s.CompletedTasks, s.TotalTasks)
	s.ConsistencyScore = combined(s.CompletedGoals, s.TotalGoals, s.CompletedTasks, s.TotalTasks)
	return s
}

// Percentage returns completed/total as a whole percentage rounded half-up.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return roundHalfUp(100*int64(completed), int64(total))
}

// combined averages completedGoals/totalGoals and completedTasks/totalTasks
// without intermediate rounding. An empty side contributes 0.
func combined(completedGoals, totalGoals, completedTasks, totalTasks int) int {
	a, b := int64(completedGoals), int64(completedTasks)
	ta, tb := int64(totalGoals), int64(totalTasks)
	if ta <= 0 {
		a, ta = 0, 1
	}
	if tb <= 0 {
		b, tb = 0, 1
	}
	return roundHalfUp(100*(a*tb+b*ta), 2*ta*tb)
}

func roundHalfUp(num, den int64) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	return int((2*num + den) / (2 * den))
}
