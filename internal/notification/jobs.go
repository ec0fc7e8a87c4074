package notification

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"daystart-backend/internal/notification/domain"
	taskdomain "daystart-backend/internal/task/domain"
	"daystart-backend/pkg/scheduler"
)

// ReminderInterval is how often due tasks are checked.
const ReminderInterval = time.Minute

// DueTaskSource finds tasks that became due in a time range.
type DueTaskSource interface {
	FindDueBetween(from, to time.Time) ([]*taskdomain.Task, error)
}

// Jobs holds the periodic notification jobs: the nightly commitment prompt
// and due-task reminders.
type Jobs struct {
	service   *Service
	tasks     DueTaskSource
	nightlyAt string
	loc       *time.Location
	now       func() time.Time

	mu        sync.Mutex
	lastCheck time.Time
}

// NewJobs creates the notification jobs. nightlyAt is HH:MM in loc.
func NewJobs(service *Service, tasks DueTaskSource, nightlyAt string, loc *time.Location) *Jobs {
	if loc == nil {
		loc = time.Local
	}
	return &Jobs{
		service:   service,
		tasks:     tasks,
		nightlyAt: nightlyAt,
		loc:       loc,
		now:       time.Now,
	}
}

// Register adds the jobs to s.
func (j *Jobs) Register(s *scheduler.Scheduler) error {
	id, err := s.ScheduleDaily(j.nightlyAt, j.NightlyPrompt)
	if err != nil {
		return fmt.Errorf("schedule nightly prompt: %w", err)
	}
	log.Printf("[Notification] Nightly prompt scheduled at %s (entry %d)", j.nightlyAt, id)

	if j.tasks != nil {
		j.mu.Lock()
		j.lastCheck = j.now()
		j.mu.Unlock()
		if _, err := s.ScheduleInterval(ReminderInterval, j.CheckDueTasks); err != nil {
			return fmt.Errorf("schedule reminders: %w", err)
		}
	}
	return nil
}

// NightlyPrompt asks for tomorrow's primary commitment.
func (j *Jobs) NightlyPrompt() {
	at := j.now().In(j.loc).Format("3:04 PM")
	j.service.Publish(
		"Nightly Commitment",
		fmt.Sprintf("It's %s. What is your primary commitment for tomorrow? Type it in your tasks!", at),
		domain.KindInfo,
		true,
	)
}

// CheckDueTasks announces every task that became due since the last check.
func (j *Jobs) CheckDueTasks() {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	if j.lastCheck.IsZero() {
		j.lastCheck = now.Add(-ReminderInterval)
	}

	tasks, err := j.tasks.FindDueBetween(j.lastCheck, now)
	if err != nil {
		log.Printf("[Notification] Error finding due tasks: %v", err)
		return
	}
	j.lastCheck = now

	for _, task := range tasks {
		message := task.Description
		if strings.TrimSpace(message) == "" {
			message = "Due " + task.DueAt.In(j.loc).Format("15:04")
		}
		j.service.Publish("Task due: "+task.Title, message, domain.KindWarning, true)
	}
	if len(tasks) > 0 {
		log.Printf("[Notification] Sent %d task reminder(s)", len(tasks))
	}
}
