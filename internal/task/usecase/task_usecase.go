package usecase

import (
	"fmt"
	"log"
	"strings"
	"time"

	"daystart-backend/internal/task/domain"
	"daystart-backend/internal/task/repository"
)

// dueLayouts are tried in order; the zone-less ones are read in the configured location.
var dueLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo      repository.TaskRepository
	accountLister AccountLister
	loc           *time.Location
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository, loc *time.Location) TaskUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &taskUsecase{
		taskRepo: taskRepo,
		loc:      loc,
	}
}

func (u *taskUsecase) SetAccountLister(lister AccountLister) {
	u.accountLister = lister
}

func (u *taskUsecase) CreateTask(input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == 0 {
		priority = domain.DefaultPriority
	}
	if !domain.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	task := &domain.Task{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		Status:      domain.TaskStatusPending,
	}

	if input.DueAt != nil && *input.DueAt != "" {
		due, err := u.parseDueAt(*input.DueAt)
		if err != nil {
			return nil, err
		}
		task.DueAt = &due
	}

	if input.AccountEmail != nil && *input.AccountEmail != "" {
		email := *input.AccountEmail
		task.AccountEmail = &email
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	log.Printf("[TaskUsecase] Created task %d (%q)", task.ID, task.Title)
	return task, nil
}

func (u *taskUsecase) GetTaskByID(taskID uint) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (u *taskUsecase) GetVisibleTasks(status *string) ([]*domain.Task, error) {
	var statusFilter *domain.TaskStatus
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		if !domain.ValidStatus(s) {
			return nil, ErrInvalidStatus
		}
		statusFilter = &s
	}

	var emails []string
	if u.accountLister != nil {
		var err error
		emails, err = u.accountLister.ConnectedEmails()
		if err != nil {
			return nil, fmt.Errorf("list connected accounts: %w", err)
		}
	}

	tasks, err := u.taskRepo.FindVisible(emails, statusFilter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (u *taskUsecase) UpdateTask(taskID uint, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Priority != nil {
		if !domain.ValidPriority(*updates.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *updates.Priority
	}
	if updates.Status != nil {
		status := domain.TaskStatus(*updates.Status)
		if !domain.ValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		task.Status = status
	}
	if updates.DueAt != nil {
		if *updates.DueAt == "" {
			task.DueAt = nil
		} else {
			due, err := u.parseDueAt(*updates.DueAt)
			if err != nil {
				return nil, err
			}
			task.DueAt = &due
		}
	}
	if updates.InWorkingArea != nil {
		task.InWorkingArea = *updates.InWorkingArea
	}
	if updates.IsHidden != nil {
		task.IsHidden = *updates.IsHidden
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(taskID uint) error {
	task, err := u.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	return u.taskRepo.Delete(task.ID)
}

func (u *taskUsecase) parseDueAt(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, raw, u.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDueAt
}
