package repository

import (
	"time"

	"daystart-backend/internal/focus/domain"

	"gorm.io/gorm"
)

// SessionRepository stores finished pomodoro sessions
type SessionRepository interface {
	Create(session *domain.PomodoroSession) error
	CreateBatch(sessions []*domain.PomodoroSession) error
	FindRecent(limit int) ([]*domain.PomodoroSession, error)
	CountWorkByTask(since time.Time) (map[uint]int, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new GORM-based SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *domain.PomodoroSession) error {
	if session.CompletedAt.IsZero() {
		session.CompletedAt = time.Now()
	}
	session.CompletedAt = session.CompletedAt.UTC()
	return r.db.Create(session).Error
}

// CreateBatch inserts all sessions in one transaction
func (r *sessionRepository) CreateBatch(sessions []*domain.PomodoroSession) error {
	if len(sessions) == 0 {
		return nil
	}
	now := time.Now()
	for _, s := range sessions {
		if s.CompletedAt.IsZero() {
			s.CompletedAt = now
		}
		s.CompletedAt = s.CompletedAt.UTC()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&sessions).Error
	})
}

func (r *sessionRepository) FindRecent(limit int) ([]*domain.PomodoroSession, error) {
	var sessions []*domain.PomodoroSession
	err := r.db.Order("completed_at DESC, id DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// CountWorkByTask counts the work sessions per task completed since the given time
func (r *sessionRepository) CountWorkByTask(since time.Time) (map[uint]int, error) {
	var rows []struct {
		TaskID uint
		Count  int
	}
	err := r.db.Model(&domain.PomodoroSession{}).
		Select("task_id, COUNT(*) AS count").
		Where("type = ? AND task_id IS NOT NULL AND completed_at >= ?", domain.SessionWork, since.UTC()).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.TaskID] = row.Count
	}
	return counts, nil
}
