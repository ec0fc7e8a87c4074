package usecase

import (
	"context"
	"errors"
	"time"

	"daystart-backend/internal/calendar/domain"
	"daystart-backend/internal/calendar/timeline"
	taskdomain "daystart-backend/internal/task/domain"
	taskusecase "daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/ai"
)

// MaxBriefingTasks caps the ranked task list of a briefing.
const MaxBriefingTasks = 6

var (
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrTitleRequired = errors.New("title is required")
)

// BriefingUsecase defines the interface for the morning briefing
type BriefingUsecase interface {
	// Generate asks the AI provider for the briefing of one day
	Generate(ctx context.Context, input GenerateInput) (*Briefing, error)

	// Accept turns a briefing entry into a task due now
	Accept(input AcceptInput) (*taskdomain.Task, error)

	// SetNotifier sets the sink for the "Today's Focus" notification
	SetNotifier(notifier Notifier)
}

// GenerateInput carries the user's focus and an optional YYYY-MM-DD day.
type GenerateInput struct {
	Focus string `json:"focus"`
	Date  string `json:"date"`
}

// AcceptInput is one briefing entry picked by the user.
type AcceptInput struct {
	Title    string   `json:"title"`
	Priority int      `json:"priority"`
	Steps    []string `json:"steps"`
}

// Briefing is the normalized answer returned to the client.
type Briefing struct {
	Date           string            `json:"date"`
	Focus          string            `json:"focus,omitempty"`
	Summary        string            `json:"summary"`
	Encouragement  string            `json:"encouragement"`
	TasksWithSteps []ai.BriefingTask `json:"tasksWithSteps"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// EventSource provides the merged timeline of a day.
type EventSource interface {
	Events(ctx context.Context, window timeline.Window) ([]domain.Event, error)
}

// TaskStore reads pending tasks and creates accepted ones.
type TaskStore interface {
	GetVisibleTasks(status *string) ([]*taskdomain.Task, error)
	CreateTask(input taskusecase.CreateTaskInput) (*taskdomain.Task, error)
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(title, message, kind string, persistent bool)
}
