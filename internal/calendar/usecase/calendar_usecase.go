package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	authdomain "daystart-backend/internal/auth/domain"
	"daystart-backend/internal/calendar/domain"
	"daystart-backend/internal/calendar/timeline"
)

// calendarUsecase implements CalendarUsecase
type calendarUsecase struct {
	connections ConnectionSource
	provider    EventProvider
	tasks       TaskSource
	loc         *time.Location
	now         func() time.Time
}

// NewCalendarUsecase creates a new instance of calendarUsecase
func NewCalendarUsecase(connections ConnectionSource, provider EventProvider, tasks TaskSource, loc *time.Location) CalendarUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &calendarUsecase{
		connections: connections,
		provider:    provider,
		tasks:       tasks,
		loc:         loc,
		now:         time.Now,
	}
}

func (u *calendarUsecase) Location() *time.Location {
	return u.loc
}

func (u *calendarUsecase) Today() timeline.Window {
	return dayWindow(u.now(), 1, u.loc)
}

func (u *calendarUsecase) Events(ctx context.Context, window timeline.Window) ([]domain.Event, error) {
	if !window.Min.Before(window.Max) {
		return nil, ErrInvalidWindow
	}

	tasks, err := u.tasks.GetVisibleTasks(nil)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	providerEvents, err := u.fetchAll(ctx, window)
	if err != nil {
		return nil, err
	}

	return timeline.Merge(providerEvents, tasks, window, u.loc), nil
}

func (u *calendarUsecase) DayLayouts(ctx context.Context, day time.Time, days int) ([]domain.DayLayout, error) {
	if days < 1 || days > MaxLayoutDays {
		return nil, ErrInvalidDays
	}

	window := dayWindow(day, days, u.loc)
	events, err := u.Events(ctx, window)
	if err != nil {
		return nil, err
	}

	layouts := make([]domain.DayLayout, 0, days)
	for i := 0; i < days; i++ {
		d := window.Min.AddDate(0, 0, i)
		layouts = append(layouts, domain.DayLayout{
			Date:   d.Format("2006-01-02"),
			Events: timeline.Layout(timeline.EventsOnDay(events, d, u.loc), u.loc),
		})
	}
	return layouts, nil
}

// fetchAll reads every connected account concurrently. An account that
// fails is logged and contributes no events.
func (u *calendarUsecase) fetchAll(ctx context.Context, window timeline.Window) ([]domain.Event, error) {
	if u.connections == nil || u.provider == nil {
		return nil, nil
	}

	conns, err := u.connections.ListConnections()
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	results := make([][]domain.Event, len(conns))
	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		go func(i int, conn *authdomain.Connection) {
			defer wg.Done()
			client := u.connections.HTTPClient(ctx, conn)
			events, err := u.provider.ListEvents(ctx, client, conn.Email, window.Min, window.Max)
			if err != nil {
				log.Printf("[Calendar] Error fetching events for %s: %v", conn.Email, err)
				return
			}
			results[i] = events
		}(i, conn)
	}
	wg.Wait()

	var all []domain.Event
	for _, events := range results {
		all = append(all, events...)
	}
	return all, nil
}

// dayWindow covers days whole days starting at the midnight of day in loc.
func dayWindow(day time.Time, days int, loc *time.Location) timeline.Window {
	local := day.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return timeline.Window{Min: start, Max: start.AddDate(0, 0, days)}
}
