// Package icsfeed renders the merged timeline as an iCalendar feed.
package icsfeed

import (
	"strconv"
	"time"

	"daystart-backend/internal/calendar/domain"

	ical "github.com/arran4/golang-ical"
)

// ProductID identifies the feed producer.
const ProductID = "-//DayStart//Timeline//EN"

// Encode serializes events into an iCalendar document named name. Task
// events carry the TASK category and an iCalendar priority.
func Encode(events []domain.Event, name string, loc *time.Location, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		uid := ev.ID
		if ev.AccountEmail != "" && !ev.IsTask {
			uid = ev.ID + "@" + ev.AccountEmail
		}

		vevent := cal.AddEvent(uid)
		vevent.SetDtStampTime(stamp.UTC())
		setTime(vevent, ev.Start, loc, true)
		setTime(vevent, ev.End, loc, false)
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.HTMLLink != "" {
			vevent.SetURL(ev.HTMLLink)
		}
		if ev.IsTask {
			vevent.SetProperty(ical.ComponentPropertyCategories, "TASK")
			if ev.Priority != nil {
				vevent.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(icalPriority(*ev.Priority)))
			}
		}
	}

	return cal.Serialize()
}

func setTime(vevent *ical.VEvent, t domain.EventTime, loc *time.Location, start bool) {
	switch {
	case t.IsAllDay():
		day := t.Instant(loc)
		if start {
			vevent.SetAllDayStartAt(day)
		} else {
			vevent.SetAllDayEndAt(day)
		}
	case t.DateTime != "":
		instant := t.Instant(loc).UTC()
		if start {
			vevent.SetStartAt(instant)
		} else {
			vevent.SetEndAt(instant)
		}
	}
}

// icalPriority maps task priorities 1..3 onto the iCalendar 1..9 scale.
func icalPriority(p int) int {
	switch p {
	case 1:
		return 1
	case 3:
		return 9
	default:
		return 5
	}
}
