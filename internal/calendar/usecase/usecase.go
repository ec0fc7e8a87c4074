package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	authdomain "daystart-backend/internal/auth/domain"
	"daystart-backend/internal/calendar/domain"
	"daystart-backend/internal/calendar/timeline"
	taskdomain "daystart-backend/internal/task/domain"
)

// MaxLayoutDays bounds the number of days one layout request may span.
const MaxLayoutDays = 7

var (
	ErrInvalidWindow = errors.New("timeMin must be before timeMax")
	ErrInvalidDays   = errors.New("days must be between 1 and 7")
)

// CalendarUsecase builds the merged timeline of the connected accounts and the local tasks
type CalendarUsecase interface {
	// Events returns the merged, start-ordered timeline for window
	Events(ctx context.Context, window timeline.Window) ([]domain.Event, error)

	// DayLayouts returns the laid-out events of days consecutive days starting at day
	DayLayouts(ctx context.Context, day time.Time, days int) ([]domain.DayLayout, error)

	// Today returns the window covering the current day
	Today() timeline.Window

	// Location returns the zone used for all-day events and day boundaries
	Location() *time.Location
}

// ConnectionSource lists connected accounts and authorizes requests for them.
type ConnectionSource interface {
	ListConnections() ([]*authdomain.Connection, error)
	HTTPClient(ctx context.Context, conn *authdomain.Connection) *http.Client
}

// EventProvider reads the events of one account.
type EventProvider interface {
	ListEvents(ctx context.Context, client *http.Client, accountEmail string, timeMin, timeMax time.Time) ([]domain.Event, error)
}

// TaskSource returns the tasks visible for the connected accounts.
type TaskSource interface {
	GetVisibleTasks(status *string) ([]*taskdomain.Task, error)
}
