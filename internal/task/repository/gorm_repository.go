package repository

import (
	"errors"
	"time"

	"daystart-backend/internal/task/domain"

	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if task.Priority == 0 {
		task.Priority = domain.DefaultPriority
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	normalizeDue(task)
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) FindByID(id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindVisible(accountEmails []string, status *domain.TaskStatus) ([]*domain.Task, error) {
	var tasks []*domain.Task

	query := r.db.Model(&domain.Task{})
	if len(accountEmails) > 0 {
		query = query.Where("(account_email IN ? OR account_email IS NULL)", accountEmails)
	} else {
		query = query.Where("account_email IS NULL")
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	err := query.Order("priority ASC, created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindDueBetween returns pending, visible tasks due in (from, to]
func (r *gormTaskRepository) FindDueBetween(from, to time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.
		Where("status = ? AND is_hidden = ? AND due_at > ? AND due_at <= ?", domain.TaskStatusPending, false, from.UTC(), to.UTC()).
		Order("due_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	normalizeDue(task)
	return r.db.Save(task).Error
}

// normalizeDue stores due times in UTC so range queries compare correctly on SQLite.
func normalizeDue(task *domain.Task) {
	if task.DueAt != nil {
		due := task.DueAt.UTC()
		task.DueAt = &due
	}
}

func (r *gormTaskRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Task{}, "id = ?", id).Error
}
