package usecase

import (
	"errors"

	"daystart-backend/internal/task/domain"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be 1, 2 or 3")
	ErrInvalidStatus   = errors.New("status must be pending or completed")
	ErrInvalidDueAt    = errors.New("due_at must be RFC 3339 or YYYY-MM-DDTHH:MM")
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// CreateTask creates a new task
	CreateTask(input CreateTaskInput) (*domain.Task, error)

	// GetTaskByID retrieves a task by ID
	GetTaskByID(taskID uint) (*domain.Task, error)

	// GetVisibleTasks lists tasks of the connected accounts (or without account)
	GetVisibleTasks(status *string) ([]*domain.Task, error)

	// UpdateTask applies a partial update
	UpdateTask(taskID uint, updates TaskUpdateRequest) (*domain.Task, error)

	// DeleteTask deletes a task
	DeleteTask(taskID uint) error

	// SetAccountLister sets the source of connected account emails
	SetAccountLister(lister AccountLister)
}

// CreateTaskInput carries the fields accepted on creation.
type CreateTaskInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Priority     int     `json:"priority"`
	DueAt        *string `json:"due_at"`
	AccountEmail *string `json:"account_email"`
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Priority      *int    `json:"priority,omitempty"`
	Status        *string `json:"status,omitempty"`
	DueAt         *string `json:"due_at,omitempty"`
	InWorkingArea *bool   `json:"in_working_area,omitempty"`
	IsHidden      *bool   `json:"is_hidden,omitempty"`
}

// AccountLister returns the emails of the connected Google accounts.
type AccountLister interface {
	ConnectedEmails() ([]string, error)
}
