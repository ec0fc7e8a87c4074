package usecase

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"daystart-backend/internal/focus"
	"daystart-backend/internal/focus/domain"
	"daystart-backend/internal/focus/repository"
	taskdomain "daystart-backend/internal/task/domain"
)

// focusUsecase implements FocusUsecase. The cycle position and the
// assignments live in process memory only.
type focusUsecase struct {
	tasks       TaskLister
	sessionRepo repository.SessionRepository
	notifier    Notifier
	loc         *time.Location
	now         func() time.Time

	mu          sync.Mutex
	prevCount   int
	assignments focus.Assignments
	current     int
}

// NewFocusUsecase creates a new instance of focusUsecase
func NewFocusUsecase(tasks TaskLister, sessionRepo repository.SessionRepository, loc *time.Location) FocusUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &focusUsecase{
		tasks:       tasks,
		sessionRepo: sessionRepo,
		loc:         loc,
		now:         time.Now,
		prevCount:   -1,
		assignments: focus.Assignments{},
	}
}

func (u *focusUsecase) SetNotifier(notifier Notifier) {
	u.notifier = notifier
}

func (u *focusUsecase) State() (*FocusState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	working, err := u.refreshLocked()
	if err != nil {
		return nil, err
	}
	return u.snapshotLocked(working), nil
}

func (u *focusUsecase) MoveTask(taskID uint, slot int) (*FocusState, error) {
	if !focus.IsWorkSlot(slot) {
		return nil, ErrInvalidSlot
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	working, err := u.refreshLocked()
	if err != nil {
		return nil, err
	}
	found := false
	for _, t := range working {
		if t.ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotInWorkingArea
	}

	if err := u.assignments.Move(taskID, slot); err != nil {
		return nil, err
	}
	log.Printf("[Focus] Moved task %d to slot %d", taskID, slot)
	return u.snapshotLocked(working), nil
}

func (u *focusUsecase) SelectSlot(slot int) (*FocusState, error) {
	if _, ok := focus.SlotAt(slot); !ok {
		return nil, ErrSlotOutOfRange
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	working, err := u.refreshLocked()
	if err != nil {
		return nil, err
	}
	u.current = slot
	return u.snapshotLocked(working), nil
}

func (u *focusUsecase) CompleteSlot() (*CompletionResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	working, err := u.refreshLocked()
	if err != nil {
		return nil, err
	}

	completed, _ := focus.SlotAt(u.current)
	sessions := sessionsFor(completed, u.assignments[completed.Index])
	finishedAt := u.now()
	for _, s := range sessions {
		s.CompletedAt = finishedAt
	}
	if err := u.sessionRepo.CreateBatch(sessions); err != nil {
		return nil, fmt.Errorf("record sessions: %w", err)
	}

	u.current = focus.Next(u.current)
	next, _ := focus.SlotAt(u.current)
	log.Printf("[Focus] Completed %s, %d session(s) recorded, next is %s", completed.Name, len(sessions), next.Name)

	if u.notifier != nil {
		kind := "info"
		if completed.Kind == focus.SlotWork {
			kind = "success"
		}
		u.notifier.Notify(
			strings.ToUpper(completed.Name)+" COMPLETE",
			fmt.Sprintf("Time for %s. Click to start next session.", next.Name),
			kind,
			false,
		)
	}

	return &CompletionResult{
		Completed: completed,
		Next:      next,
		Sessions:  sessions,
		State:     u.snapshotLocked(working),
	}, nil
}

func (u *focusUsecase) RecordSession(input RecordSessionInput) (*domain.PomodoroSession, error) {
	sessionType := domain.SessionType(input.Type)
	if sessionType == "" {
		sessionType = domain.SessionWork
	}
	if !domain.ValidSessionType(sessionType) {
		return nil, ErrInvalidSessionType
	}
	if input.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	session := &domain.PomodoroSession{
		TaskID:      input.TaskID,
		Duration:    input.Duration,
		Type:        sessionType,
		CompletedAt: u.now(),
	}
	if err := u.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return session, nil
}

func (u *focusUsecase) RecentSessions(limit int) ([]*domain.PomodoroSession, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	sessions, err := u.sessionRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*domain.PomodoroSession{}
	}
	return sessions, nil
}

// refreshLocked reloads the working area from the visible pending tasks and
// redistributes when its size changed. Callers hold u.mu.
func (u *focusUsecase) refreshLocked() ([]*taskdomain.Task, error) {
	pending := string(taskdomain.TaskStatusPending)
	all, err := u.tasks.GetVisibleTasks(&pending)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	working := focus.OrderWorkingTasks(all)
	next, changed := focus.RecomputeIfCountChanged(u.prevCount, len(working), focus.TaskIDs(working), u.assignments)
	if changed {
		log.Printf("[Focus] Working area has %d task(s), redistributing", len(working))
	}
	u.assignments = next
	u.prevCount = len(working)
	return working, nil
}

func (u *focusUsecase) snapshotLocked(working []*taskdomain.Task) *FocusState {
	if working == nil {
		working = []*taskdomain.Task{}
	}

	now := u.now().In(u.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc)
	counts, err := u.sessionRepo.CountWorkByTask(dayStart)
	if err != nil {
		log.Printf("[Focus] Failed to count today's sessions: %v", err)
		counts = map[uint]int{}
	}

	return &FocusState{
		Slots:         focus.Cycle(),
		CurrentSlot:   u.current,
		Assignments:   u.assignments.Clone(),
		WorkingTasks:  working,
		SessionsToday: counts,
	}
}

// sessionsFor builds one session per distinct task queued in a finished work
// slot. Breaks and empty work slots are recorded without a task.
func sessionsFor(slot focus.Slot, taskIDs []uint) []*domain.PomodoroSession {
	seconds := int(slot.Duration / time.Second)
	sessionType := domain.SessionType(slot.Kind)

	if slot.Kind != focus.SlotWork || len(taskIDs) == 0 {
		return []*domain.PomodoroSession{{Duration: seconds, Type: sessionType}}
	}

	seen := make(map[uint]bool, len(taskIDs))
	var sessions []*domain.PomodoroSession
	for _, id := range taskIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		taskID := id
		sessions = append(sessions, &domain.PomodoroSession{TaskID: &taskID, Duration: seconds, Type: sessionType})
	}
	return sessions
}
