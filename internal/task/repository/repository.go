package repository

import (
	"time"

	"daystart-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task and assigns its ID
	Create(task *domain.Task) error

	// FindByID finds a task by its ID, returning nil when it does not exist
	FindByID(id uint) (*domain.Task, error)

	// FindVisible returns tasks that belong to one of accountEmails or to no account,
	// ordered by priority then most recently created first
	FindVisible(accountEmails []string, status *domain.TaskStatus) ([]*domain.Task, error)

	// FindDueBetween returns pending, visible tasks whose due time is in (from, to]
	FindDueBetween(from, to time.Time) ([]*domain.Task, error)

	// Update updates an existing task
	Update(task *domain.Task) error

	// Delete deletes a task by ID
	Delete(id uint) error
}
