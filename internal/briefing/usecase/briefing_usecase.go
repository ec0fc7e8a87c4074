package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"daystart-backend/internal/calendar/domain"
	"daystart-backend/internal/calendar/timeline"
	taskdomain "daystart-backend/internal/task/domain"
	taskusecase "daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/ai"
	"daystart-backend/pkg/fuzzy"
)

const (
	dateLayout = "2006-01-02"

	// maxPromptTasks bounds the pending tasks sent to the model.
	maxPromptTasks = 20

	// titleMatchScore is the minimum similarity for a title to map to a task.
	titleMatchScore = 0.8
)

// briefingUsecase implements BriefingUsecase
type briefingUsecase struct {
	events   EventSource
	tasks    TaskStore
	ai       ai.BriefingService
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewBriefingUsecase creates a new instance of briefingUsecase
func NewBriefingUsecase(events EventSource, tasks TaskStore, aiService ai.BriefingService, loc *time.Location) BriefingUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &briefingUsecase{
		events: events,
		tasks:  tasks,
		ai:     aiService,
		loc:    loc,
		now:    time.Now,
	}
}

func (u *briefingUsecase) SetNotifier(notifier Notifier) {
	u.notifier = notifier
}

func (u *briefingUsecase) Generate(ctx context.Context, input GenerateInput) (*Briefing, error) {
	day, err := u.resolveDay(input.Date)
	if err != nil {
		return nil, err
	}
	window := timeline.Window{Min: day, Max: day.AddDate(0, 0, 1)}
	focus := strings.TrimSpace(input.Focus)

	events, err := u.events.Events(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	pending := string(taskdomain.TaskStatusPending)
	tasks, err := u.tasks.GetVisibleTasks(&pending)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks = rankTasks(tasks)

	req := ai.BriefingRequest{
		Date:   day.Format(dateLayout),
		Focus:  focus,
		Events: u.eventSummaries(events),
		Tasks:  u.taskSummaries(tasks),
	}

	log.Printf("[Briefing] Generating briefing for %s (%d events, %d tasks)", req.Date, len(req.Events), len(req.Tasks))
	answer, err := u.ai.GenerateBriefing(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate briefing: %w", err)
	}

	briefing := &Briefing{
		Date:           req.Date,
		Focus:          focus,
		Summary:        strings.TrimSpace(answer.Summary),
		Encouragement:  strings.TrimSpace(answer.Encouragement),
		TasksWithSteps: normalizeTasks(answer.TasksWithSteps, tasks),
		GeneratedAt:    u.now(),
	}

	u.notifyFocus(briefing)
	return briefing, nil
}

func (u *briefingUsecase) Accept(input AcceptInput) (*taskdomain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	description := "Added from briefing suggestions."
	if steps := cleanSteps(input.Steps); len(steps) > 0 {
		var sb strings.Builder
		sb.WriteString("Recommended steps:")
		for i, step := range steps {
			fmt.Fprintf(&sb, "\n%d. %s", i+1, step)
		}
		description = sb.String()
	}

	dueAt := u.now().In(u.loc).Format(time.RFC3339)
	return u.tasks.CreateTask(taskusecase.CreateTaskInput{
		Title:       title,
		Description: description,
		Priority:    clampPriority(input.Priority),
		DueAt:       &dueAt,
	})
}

func (u *briefingUsecase) resolveDay(date string) (time.Time, error) {
	if date == "" {
		y, m, d := u.now().In(u.loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, u.loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, date, u.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

func (u *briefingUsecase) notifyFocus(b *Briefing) {
	if u.notifier == nil || len(b.TasksWithSteps) == 0 {
		return
	}
	var titles []string
	for i, t := range b.TasksWithSteps {
		if i == 3 {
			break
		}
		titles = append(titles, t.Title)
	}
	u.notifier.Notify("Today's Focus", strings.Join(titles, ", "), "info", true)
}

// Task pseudo-events are sent as tasks, so only provider events are listed.
func (u *briefingUsecase) eventSummaries(events []domain.Event) []ai.EventSummary {
	out := make([]ai.EventSummary, 0, len(events))
	for _, ev := range events {
		if ev.IsTask {
			continue
		}
		summary := ai.EventSummary{
			Summary:  ev.Summary,
			AllDay:   ev.Start.IsAllDay(),
			Location: ev.Location,
		}
		if summary.AllDay {
			summary.Start = ev.Start.Date
		} else {
			summary.Start = ev.Start.Instant(u.loc).In(u.loc).Format("15:04")
			summary.End = ev.End.Instant(u.loc).In(u.loc).Format("15:04")
		}
		out = append(out, summary)
	}
	return out
}

func (u *briefingUsecase) taskSummaries(tasks []*taskdomain.Task) []ai.TaskSummary {
	out := make([]ai.TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		summary := ai.TaskSummary{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.EffectivePriority(),
		}
		if t.DueAt != nil {
			summary.DueAt = t.DueAt.In(u.loc).Format(time.RFC3339)
		}
		out = append(out, summary)
	}
	return out
}

// rankTasks drops hidden tasks and orders the rest by priority, then due
// time (undated last), keeping at most maxPromptTasks.
func rankTasks(tasks []*taskdomain.Task) []*taskdomain.Task {
	out := make([]*taskdomain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil && !t.IsHidden && t.Status == taskdomain.TaskStatusPending {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].EffectivePriority(), out[j].EffectivePriority()
		if pi != pj {
			return pi < pj
		}
		di, dj := out[i].DueAt, out[j].DueAt
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	if len(out) > maxPromptTasks {
		out = out[:maxPromptTasks]
	}
	return out
}

// normalizeTasks cleans the model's task list: titles and steps are trimmed,
// priorities clamped to 1-3, ids checked against the known tasks (or matched
// by a similar title) and the list capped at MaxBriefingTasks.
func normalizeTasks(raw []ai.BriefingTask, known []*taskdomain.Task) []ai.BriefingTask {
	byID := make(map[uint]*taskdomain.Task, len(known))
	titles := make([]string, len(known))
	for i, t := range known {
		byID[t.ID] = t
		titles[i] = t.Title
	}

	out := make([]ai.BriefingTask, 0, MaxBriefingTasks)
	seen := make(map[uint]bool)
	for _, item := range raw {
		if len(out) == MaxBriefingTasks {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		var match *taskdomain.Task
		if item.TaskID != nil {
			match = byID[*item.TaskID]
		}
		if match == nil {
			if i, ok := fuzzy.BestMatch(title, titles, titleMatchScore); ok {
				match = known[i]
			}
		}

		task := ai.BriefingTask{
			Title:       title,
			Priority:    clampPriority(item.Priority),
			IsSuggested: true,
			Steps:       cleanSteps(item.Steps),
		}
		if match != nil {
			if seen[match.ID] {
				continue
			}
			seen[match.ID] = true
			id := match.ID
			task.TaskID = &id
			task.IsSuggested = false
		}
		out = append(out, task)
	}
	return out
}

func clampPriority(p int) int {
	switch {
	case p == 0:
		return taskdomain.DefaultPriority
	case p < taskdomain.PriorityHigh:
		return taskdomain.PriorityHigh
	case p > taskdomain.PriorityLow:
		return taskdomain.PriorityLow
	default:
		return p
	}
}

func cleanSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
