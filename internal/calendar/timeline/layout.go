package timeline

import (
	"time"

	"daystart-backend/internal/calendar/domain"
)

type span struct {
	event domain.Event
	start time.Time
	end   time.Time
}

// Layout assigns every event of a single day a horizontal position so that
// overlapping events sit in separate columns. Events are clustered into
// transitively overlapping groups; inside a group each event takes the first
// column that is free by its start, in arrival order. Every column of a group
// gets the same width.
func Layout(dayEvents []domain.Event, loc *time.Location) []domain.Event {
	if len(dayEvents) == 0 {
		return []domain.Event{}
	}

	sorted := make([]domain.Event, len(dayEvents))
	copy(sorted, dayEvents)
	SortByStart(sorted, loc)

	out := make([]domain.Event, 0, len(sorted))
	for _, group := range overlapGroups(sorted, loc) {
		out = append(out, packColumns(group)...)
	}
	return out
}

// overlapGroups splits start-ordered events into clusters using a running
// end watermark.
func overlapGroups(sorted []domain.Event, loc *time.Location) [][]span {
	var groups [][]span
	var current []span
	var watermark time.Time

	for _, event := range sorted {
		s := span{event: event, start: event.Start.Instant(loc), end: event.End.Instant(loc)}
		if len(current) > 0 && s.start.Before(watermark) {
			current = append(current, s)
			if s.end.After(watermark) {
				watermark = s.end
			}
			continue
		}
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = []span{s}
		watermark = s.end
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func packColumns(group []span) []domain.Event {
	// columnEnds[c] is the end of the last event placed in column c.
	var columnEnds []time.Time
	assigned := make([]int, len(group))

	for i, s := range group {
		placed := false
		for c, end := range columnEnds {
			if !s.start.Before(end) {
				columnEnds[c] = s.end
				assigned[i] = c
				placed = true
				break
			}
		}
		if !placed {
			columnEnds = append(columnEnds, s.end)
			assigned[i] = len(columnEnds) - 1
		}
	}

	width := float64(len(columnEnds))
	out := make([]domain.Event, len(group))
	for i, s := range group {
		event := s.event
		event.Layout = &domain.Layout{
			Left:  float64(assigned[i]) * 100 / width,
			Width: 100 / width,
		}
		out[i] = event
	}
	return out
}

// EventsOnDay returns the events whose effective start falls on the calendar
// day of day in loc, preserving order.
func EventsOnDay(events []domain.Event, day time.Time, loc *time.Location) []domain.Event {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := day.In(loc).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	window := Window{Min: dayStart, Max: dayStart.AddDate(0, 0, 1)}

	var out []domain.Event
	for _, event := range events {
		if window.Contains(event.Start.Instant(loc)) {
			out = append(out, event)
		}
	}
	return out
}
