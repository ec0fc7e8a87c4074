package domain

import "time"

// Priority levels, 1 is the most important.
const (
	PriorityHigh    = 1
	PriorityMedium  = 2
	PriorityLow     = 3
	DefaultPriority = PriorityMedium
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task is a locally stored to-do item.
type Task struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description"`
	Priority      int        `json:"priority" gorm:"default:2"`
	Status        TaskStatus `json:"status" gorm:"default:pending;index"`
	DueAt         *time.Time `json:"due_at,omitempty" gorm:"index"`
	InWorkingArea bool       `json:"in_working_area" gorm:"default:false"`
	IsHidden      bool       `json:"is_hidden" gorm:"default:false"`
	AccountEmail  *string    `json:"account_email,omitempty" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsScheduled reports whether the task shows up on the calendar:
// pending, not hidden and with a due time.
func (t *Task) IsScheduled() bool {
	return t.Status == TaskStatusPending && !t.IsHidden && t.DueAt != nil
}

// EffectivePriority treats an unset priority as medium.
func (t *Task) EffectivePriority() int {
	if t.Priority == 0 {
		return DefaultPriority
	}
	return t.Priority
}

// ValidPriority reports whether p is one of the three supported levels.
func ValidPriority(p int) bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s TaskStatus) bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}
