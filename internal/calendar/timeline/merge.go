// Package timeline merges calendar events with task-derived events and lays
// out the overlapping entries of a day side by side.
package timeline

import (
	"sort"
	"strconv"
	"time"

	"daystart-backend/internal/calendar/domain"
	taskdomain "daystart-backend/internal/task/domain"
)

// TaskEventDuration is the length given to task pseudo-events.
const TaskEventDuration = 30 * time.Minute

// TaskEventPrefix prefixes the ID of every task-derived event.
const TaskEventPrefix = "task-"

// Window is the half-open range [Min, Max).
type Window struct {
	Min time.Time
	Max time.Time
}

// Contains reports whether t falls in the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Min) && t.Before(w.Max)
}

// Merge appends the calendar events derived from tasks to the provider
// events and returns the result ordered by effective start. The sort is
// stable and nothing is de-duplicated.
func Merge(providerEvents []domain.Event, tasks []*taskdomain.Task, window Window, loc *time.Location) []domain.Event {
	merged := make([]domain.Event, 0, len(providerEvents)+len(tasks))
	merged = append(merged, providerEvents...)
	merged = append(merged, TaskEvents(tasks, window)...)
	SortByStart(merged, loc)
	return merged
}

// TaskEvents materializes every scheduled task whose due time lies in window.
func TaskEvents(tasks []*taskdomain.Task, window Window) []domain.Event {
	var events []domain.Event
	for _, task := range tasks {
		if task == nil || !task.IsScheduled() || !window.Contains(*task.DueAt) {
			continue
		}
		events = append(events, TaskEvent(task))
	}
	return events
}

// TaskEvent converts a scheduled task into its calendar representation.
func TaskEvent(task *taskdomain.Task) domain.Event {
	taskID := task.ID
	priority := task.EffectivePriority()
	event := domain.Event{
		ID:          TaskEventPrefix + strconv.FormatUint(uint64(task.ID), 10),
		Summary:     "[Task] " + task.Title,
		Description: task.Description,
		Start:       domain.At(*task.DueAt),
		End:         domain.At(task.DueAt.Add(TaskEventDuration)),
		IsTask:      true,
		TaskID:      &taskID,
		Priority:    &priority,
	}
	if task.AccountEmail != nil {
		event.AccountEmail = *task.AccountEmail
	}
	return event
}

// SortByStart orders events in place by effective start, keeping the
// relative order of equal starts.
func SortByStart(events []domain.Event, loc *time.Location) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Instant(loc).Before(events[j].Start.Instant(loc))
	})
}
