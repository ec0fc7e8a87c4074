package google

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"daystart-backend/internal/calendar/domain"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarService reads events from every calendar of an account.
type CalendarService struct {
	opts []option.ClientOption
}

// NewCalendarService creates a CalendarService. opts are applied to every
// Calendar API client it builds.
func NewCalendarService(opts ...option.ClientOption) *CalendarService {
	return &CalendarService{opts: opts}
}

// ListEvents returns the events of all calendars visible to the account
// between timeMin and timeMax. Recurring events are expanded. A calendar that fails
// to load is logged and contributes nothing.
func (s *CalendarService) ListEvents(ctx context.Context, client *http.Client, accountEmail string, timeMin, timeMax time.Time) ([]domain.Event, error) {
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, s.opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}

	list, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendars for %s: %w", accountEmail, err)
	}

	results := make([][]domain.Event, len(list.Items))
	var wg sync.WaitGroup
	for i, cal := range list.Items {
		wg.Add(1)
		go func(i int, cal *calendar.CalendarListEntry) {
			defer wg.Done()
			calendarID := cal.Id
			if calendarID == "" {
				calendarID = "primary"
			}

			resp, err := srv.Events.List(calendarID).
				TimeMin(timeMin.Format(time.RFC3339)).
				TimeMax(timeMax.Format(time.RFC3339)).
				SingleEvents(true).
				OrderBy("startTime").
				Context(ctx).
				Do()
			if err != nil {
				log.Printf("[Google] Error fetching calendar %s for account %s: %v", calendarID, accountEmail, err)
				return
			}

			events := make([]domain.Event, 0, len(resp.Items))
			for _, item := range resp.Items {
				events = append(events, convertEvent(item, cal.Summary, accountEmail))
			}
			results[i] = events
		}(i, cal)
	}
	wg.Wait()

	var all []domain.Event
	for _, events := range results {
		all = append(all, events...)
	}
	return all, nil
}

func convertEvent(item *calendar.Event, calendarName, accountEmail string) domain.Event {
	event := domain.Event{
		ID:           item.Id,
		Summary:      item.Summary,
		Description:  item.Description,
		Location:     item.Location,
		AccountEmail: accountEmail,
		CalendarName: calendarName,
		HTMLLink:     item.HtmlLink,
	}
	if item.Start != nil {
		event.Start = domain.EventTime{DateTime: item.Start.DateTime, Date: item.Start.Date}
	}
	if item.End != nil {
		event.End = domain.EventTime{DateTime: item.End.DateTime, Date: item.End.Date}
	}
	return event
}
