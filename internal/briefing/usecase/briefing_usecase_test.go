package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"daystart-backend/internal/calendar/domain"
	"daystart-backend/internal/calendar/timeline"
	taskdomain "daystart-backend/internal/task/domain"
	taskusecase "daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/ai"
)

var testLoc = time.FixedZone("UTC+2", 2*60*60)

type fakeEvents struct {
	window timeline.Window
	events []domain.Event
	err    error
}

func (f *fakeEvents) Events(ctx context.Context, window timeline.Window) ([]domain.Event, error) {
	f.window = window
	return f.events, f.err
}

type fakeTasks struct {
	tasks   []*taskdomain.Task
	created []taskusecase.CreateTaskInput
	status  *string
}

func (f *fakeTasks) GetVisibleTasks(status *string) ([]*taskdomain.Task, error) {
	f.status = status
	return f.tasks, nil
}

func (f *fakeTasks) CreateTask(input taskusecase.CreateTaskInput) (*taskdomain.Task, error) {
	f.created = append(f.created, input)
	return &taskdomain.Task{ID: 99, Title: input.Title, Description: input.Description, Priority: input.Priority}, nil
}

type fakeAI struct {
	req    ai.BriefingRequest
	answer *ai.Briefing
	err    error
}

func (f *fakeAI) GenerateBriefing(ctx context.Context, req ai.BriefingRequest) (*ai.Briefing, error) {
	f.req = req
	return f.answer, f.err
}

type notice struct {
	title, message, kind string
	persistent           bool
}

type recordingNotifier struct{ notices []notice }

func (r *recordingNotifier) Notify(title, message, kind string, persistent bool) {
	r.notices = append(r.notices, notice{title, message, kind, persistent})
}

func uintPtr(v uint) *uint { return &v }

func newTestUsecase(events *fakeEvents, tasks *fakeTasks, model *fakeAI) (*briefingUsecase, *recordingNotifier) {
	u := NewBriefingUsecase(events, tasks, model, testLoc).(*briefingUsecase)
	u.now = func() time.Time { return time.Date(2026, 4, 14, 7, 30, 0, 0, testLoc) }
	n := &recordingNotifier{}
	u.SetNotifier(n)
	return u, n
}

func TestGenerateBuildsRequestAndNormalizes(t *testing.T) {
	due := time.Date(2026, 4, 14, 15, 0, 0, 0, testLoc)
	events := &fakeEvents{events: []domain.Event{
		{ID: "e1", Summary: "Standup", Start: domain.At(time.Date(2026, 4, 14, 9, 0, 0, 0, testLoc)), End: domain.At(time.Date(2026, 4, 14, 9, 15, 0, 0, testLoc))},
		{ID: "task-1", Summary: "[Task] Report", IsTask: true, Start: domain.At(due)},
	}}
	tasks := &fakeTasks{tasks: []*taskdomain.Task{
		{ID: 1, Title: "Report", Priority: 2, Status: taskdomain.TaskStatusPending, DueAt: &due},
		{ID: 2, Title: "Email Bob", Priority: 1, Status: taskdomain.TaskStatusPending},
		{ID: 3, Title: "Hidden", Priority: 1, Status: taskdomain.TaskStatusPending, IsHidden: true},
	}}
	model := &fakeAI{answer: &ai.Briefing{
		Summary:       "  Busy day ",
		Encouragement: "Go!",
		TasksWithSteps: []ai.BriefingTask{
			{TaskID: uintPtr(1), Title: "Report", Priority: 7, Steps: []string{" Outline ", "", "Draft"}},
			{Title: "email bob", Priority: -1, IsSuggested: true, Steps: []string{"Open inbox"}},
			{TaskID: uintPtr(42), Title: "Prep slides", Priority: 0, Steps: nil},
			{Title: "   "},
			{TaskID: uintPtr(1), Title: "Report again"},
			{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"},
		},
	}}

	u, n := newTestUsecase(events, tasks, model)
	b, err := u.Generate(context.Background(), GenerateInput{Focus: " ship it "})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !events.window.Min.Equal(time.Date(2026, 4, 14, 0, 0, 0, 0, testLoc)) || events.window.Max.Sub(events.window.Min) != 24*time.Hour {
		t.Errorf("Unexpected window %+v", events.window)
	}
	if tasks.status == nil || *tasks.status != "pending" {
		t.Errorf("Expected pending tasks to be requested")
	}
	if model.req.Focus != "ship it" || model.req.Date != "2026-04-14" {
		t.Errorf("Unexpected request %+v", model.req)
	}
	if len(model.req.Events) != 1 || model.req.Events[0].Start != "09:00" {
		t.Errorf("Expected only the provider event, got %+v", model.req.Events)
	}
	if len(model.req.Tasks) != 2 || model.req.Tasks[0].ID != 2 {
		t.Errorf("Expected visible tasks ranked by priority, got %+v", model.req.Tasks)
	}

	if b.Summary != "Busy day" || len(b.TasksWithSteps) != MaxBriefingTasks {
		t.Fatalf("Unexpected briefing %+v", b)
	}
	first := b.TasksWithSteps[0]
	if first.Priority != 3 || len(first.Steps) != 2 || first.Steps[0] != "Outline" || first.IsSuggested {
		t.Errorf("Unexpected first entry %+v", first)
	}
	second := b.TasksWithSteps[1]
	if second.TaskID == nil || *second.TaskID != 2 || second.Priority != 1 || second.IsSuggested {
		t.Errorf("Expected title match to task 2, got %+v", second)
	}
	third := b.TasksWithSteps[2]
	if third.TaskID != nil || !third.IsSuggested || third.Priority != 2 {
		t.Errorf("Expected unknown id to become a suggestion, got %+v", third)
	}
	if b.TasksWithSteps[3].Title != "A" {
		t.Errorf("Expected blank and duplicate entries to be dropped, got %+v", b.TasksWithSteps[3])
	}

	if len(n.notices) != 1 {
		t.Fatalf("Expected one notification, got %d", len(n.notices))
	}
	got := n.notices[0]
	if got.title != "Today's Focus" || got.message != "Report, email bob, Prep slides" || !got.persistent {
		t.Errorf("Unexpected notification %+v", got)
	}
}

func TestGenerateWithDateAndErrors(t *testing.T) {
	model := &fakeAI{answer: &ai.Briefing{Summary: "ok"}}
	u, n := newTestUsecase(&fakeEvents{}, &fakeTasks{}, model)

	b, err := u.Generate(context.Background(), GenerateInput{Date: "2026-05-01"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Date != "2026-05-01" || len(b.TasksWithSteps) != 0 {
		t.Errorf("Unexpected briefing %+v", b)
	}
	if len(n.notices) != 0 {
		t.Errorf("Expected no notification for an empty task list")
	}

	if _, err := u.Generate(context.Background(), GenerateInput{Date: "May 1"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}

	model.err = errors.New("quota")
	if _, err := u.Generate(context.Background(), GenerateInput{}); err == nil {
		t.Errorf("Expected the AI error to surface")
	}

	u.events = &fakeEvents{err: errors.New("boom")}
	if _, err := u.Generate(context.Background(), GenerateInput{}); err == nil {
		t.Errorf("Expected the calendar error to surface")
	}
}

func TestAcceptCreatesTask(t *testing.T) {
	tasks := &fakeTasks{}
	u, _ := newTestUsecase(&fakeEvents{}, tasks, &fakeAI{})

	if _, err := u.Accept(AcceptInput{Title: "Prep slides", Priority: 5, Steps: []string{"Open deck", " ", "Add chart"}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	in := tasks.created[0]
	if in.Priority != 3 {
		t.Errorf("Expected clamped priority 3, got %d", in.Priority)
	}
	if in.Description != "Recommended steps:\n1. Open deck\n2. Add chart" {
		t.Errorf("Unexpected description %q", in.Description)
	}
	if in.DueAt == nil || *in.DueAt != "2026-04-14T07:30:00+02:00" {
		t.Errorf("Expected due now, got %v", in.DueAt)
	}

	if _, err := u.Accept(AcceptInput{Title: "Stretch"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in := tasks.created[1]; in.Priority != 2 || !strings.HasPrefix(in.Description, "Added from briefing") {
		t.Errorf("Unexpected defaults %+v", in)
	}

	if _, err := u.Accept(AcceptInput{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Expected ErrTitleRequired, got %v", err)
	}
}
