// Package streak derives the current streak of a user from their full task
// history. The computation is pure: the anchor date is supplied by the
// caller, never read from the wall clock, so results are reproducible.
package streak

import (
	"time"

	"habitTrackerAPI/internal/types/streak"
	"habitTrackerAPI/internal/types/task"
)

// dayInfo accumulates per-date facts while grouping tasks.
type dayInfo struct {
	frozen    bool
	completed bool
	seen      bool
}

// Statuses groups tasks by calendar date and classifies each date.
// A freeze marker dominates the date regardless of other tasks on it;
// otherwise one completed regular task is enough to mark the date
// Completed. Dates the user never touched are absent from the map.
func Statuses(tasks []*task.Task) map[string]streak.DayStatus {
	days := make(map[string]dayInfo)
	for _, t := range tasks {
		if t.Date == "" {
			continue
		}
		date := t.Date
		if len(date) > len(task.DateLayout) {
			date = date[:len(task.DateLayout)]
		}
		info := days[date]
		info.seen = true
		if t.IsFreezeMarker() {
			info.frozen = true
		} else if t.Completed {
			info.completed = true
		}
		days[date] = info
	}

	statuses := make(map[string]streak.DayStatus, len(days))
	for date, info := range days {
		switch {
		case info.frozen:
			statuses[date] = streak.Frozen
		case info.completed:
			statuses[date] = streak.Completed
		default:
			statuses[date] = streak.NotCompleted
		}
	}
	return statuses
}

// Compute returns the current streak length anchored at today: the number
// of consecutive days, walking backward, that are each Completed or Frozen.
// Frozen days preserve the streak without growing it. An anchor day that is
// not yet completed gets one day of grace: the walk restarts from yesterday
// before giving up. The result is never negative.
func Compute(tasks []*task.Task, today time.Time) int {
	statuses := Statuses(tasks)

	anchor := today
	if statusOn(statuses, anchor) == streak.NotCompleted {
		anchor = today.AddDate(0, 0, -1)
		if statusOn(statuses, anchor) == streak.NotCompleted {
			return 0
		}
	}

	count := 0
	for day := anchor; ; day = day.AddDate(0, 0, -1) {
		switch statusOn(statuses, day) {
		case streak.Completed:
			count++
		case streak.Frozen:
			// neither breaks nor extends
		default:
			return count
		}
	}
}

func statusOn(statuses map[string]streak.DayStatus, day time.Time) streak.DayStatus {
	status, ok := statuses[day.Format(task.DateLayout)]
	if !ok {
		return streak.NotCompleted
	}
	return status
}
