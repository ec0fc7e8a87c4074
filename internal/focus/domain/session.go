package domain

import "time"

// SessionType is the kind of period a pomodoro session covered.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// PomodoroSession records a finished focus period, optionally tied to a task.
type PomodoroSession struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID      *uint       `json:"task_id,omitempty" gorm:"index"`
	Duration    int         `json:"duration"` // seconds
	Type        SessionType `json:"type" gorm:"not null"`
	CompletedAt time.Time   `json:"completed_at" gorm:"index"`
}

// TableName keeps the table name stable across drivers.
func (PomodoroSession) TableName() string {
	return "pomodoro_sessions"
}

// ValidSessionType reports whether t is a known session type.
func ValidSessionType(t SessionType) bool {
	switch t {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}
