package usecase

import (
	"errors"

	"daystart-backend/internal/focus"
	"daystart-backend/internal/focus/domain"
	taskdomain "daystart-backend/internal/task/domain"
)

var (
	ErrInvalidSlot        = focus.ErrInvalidSlot
	ErrSlotOutOfRange     = errors.New("slot must be between 0 and 7")
	ErrNotInWorkingArea   = errors.New("task is not in the working area")
	ErrInvalidSessionType = errors.New("type must be work, short_break or long_break")
	ErrInvalidDuration    = errors.New("duration must be positive")
)

// FocusUsecase drives the pomodoro cycle and its task assignments
type FocusUsecase interface {
	// State returns the cycle, recomputing the assignments when the
	// working-area task count changed since the last call
	State() (*FocusState, error)

	// MoveTask moves a working-area task to a single work slot
	MoveTask(taskID uint, slot int) (*FocusState, error)

	// SelectSlot jumps to a slot of the cycle
	SelectSlot(slot int) (*FocusState, error)

	// CompleteSlot records the finished slot and advances the cycle
	CompleteSlot() (*CompletionResult, error)

	// RecordSession stores a raw session
	RecordSession(input RecordSessionInput) (*domain.PomodoroSession, error)

	// RecentSessions lists the latest sessions, newest first
	RecentSessions(limit int) ([]*domain.PomodoroSession, error)

	// SetNotifier sets the sink for completion notifications
	SetNotifier(notifier Notifier)
}

// TaskLister lists the tasks of the connected accounts, optionally by status.
type TaskLister interface {
	GetVisibleTasks(status *string) ([]*taskdomain.Task, error)
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(title, message, kind string, persistent bool)
}

// FocusState is the snapshot returned to clients.
type FocusState struct {
	Slots        []focus.Slot       `json:"slots"`
	CurrentSlot  int                `json:"current_slot"`
	Assignments  focus.Assignments  `json:"assignments"`
	WorkingTasks []*taskdomain.Task `json:"working_tasks"`
	// SessionsToday counts today's work sessions per task id.
	SessionsToday map[uint]int `json:"sessions_today"`
}

// CompletionResult describes a finished slot.
type CompletionResult struct {
	Completed focus.Slot                `json:"completed"`
	Next      focus.Slot                `json:"next"`
	Sessions  []*domain.PomodoroSession `json:"sessions"`
	State     *FocusState               `json:"state"`
}

// RecordSessionInput is a raw session submitted by a client.
type RecordSessionInput struct {
	TaskID   *uint  `json:"task_id"`
	Duration int    `json:"duration"`
	Type     string `json:"type"`
}
