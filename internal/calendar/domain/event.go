package domain

import (
	"time"
)

const dateLayout = "2006-01-02"

// EventTime is either a precise instant (DateTime, RFC 3339) or an
// all-day date (Date, YYYY-MM-DD), mirroring the Calendar API shape.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Instant returns the effective instant of t. All-day dates resolve to
// midnight in loc. Missing or malformed values resolve to the Unix epoch.
func (t EventTime) Instant(loc *time.Location) time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
		return time.Unix(0, 0)
	}
	if t.Date != "" {
		if loc == nil {
			loc = time.Local
		}
		if parsed, err := time.ParseInLocation(dateLayout, t.Date, loc); err == nil {
			return parsed
		}
	}
	return time.Unix(0, 0)
}

// IsAllDay reports whether t only carries a calendar date.
func (t EventTime) IsAllDay() bool {
	return t.DateTime == "" && t.Date != ""
}

// At builds a timed EventTime.
func At(t time.Time) EventTime {
	return EventTime{DateTime: t.Format(time.RFC3339)}
}

// OnDate builds an all-day EventTime.
func OnDate(t time.Time) EventTime {
	return EventTime{Date: t.Format(dateLayout)}
}

// Layout is the horizontal placement of an event in a day column, in percent.
type Layout struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Event is a calendar entry, either from a provider or derived from a task.
type Event struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	Start        EventTime `json:"start"`
	End          EventTime `json:"end"`
	IsTask       bool      `json:"isTask,omitempty"`
	TaskID       *uint     `json:"taskId,omitempty"`
	Priority     *int      `json:"priority,omitempty"`
	AccountEmail string    `json:"accountEmail,omitempty"`
	CalendarName string    `json:"calendarName,omitempty"`
	HTMLLink     string    `json:"htmlLink,omitempty"`
	Layout       *Layout   `json:"layout,omitempty"`
}

// DayLayout holds the laid-out events of one day.
type DayLayout struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}
