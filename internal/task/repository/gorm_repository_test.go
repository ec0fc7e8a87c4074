package repository

import (
	"fmt"
	"testing"
	"time"

	"daystart-backend/internal/task/domain"
	"daystart-backend/pkg/database"
)

func newTestRepo(t *testing.T) TaskRepository {
	t.Helper()
	db, err := database.NewSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormTaskRepository(db)
}

func strPtr(s string) *string { return &s }

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	repo := newTestRepo(t)

	task := &domain.Task{Title: "Write report"}
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("Expected an ID to be assigned")
	}

	got, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Priority != domain.DefaultPriority {
		t.Errorf("Expected default priority %d, got %d", domain.DefaultPriority, got.Priority)
	}
	if got.Status != domain.TaskStatusPending {
		t.Errorf("Expected pending status, got %s", got.Status)
	}
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.FindByID(42)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing task, got %+v", got)
	}
}

func TestFindVisibleFiltersAndOrders(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tasks := []*domain.Task{
		{Title: "low", Priority: 3, CreatedAt: base},
		{Title: "high-old", Priority: 1, CreatedAt: base.Add(time.Minute), AccountEmail: strPtr("a@example.com")},
		{Title: "high-new", Priority: 1, CreatedAt: base.Add(2 * time.Minute)},
		{Title: "other-account", Priority: 1, CreatedAt: base, AccountEmail: strPtr("b@example.com")},
		{Title: "done", Priority: 2, CreatedAt: base, Status: domain.TaskStatusCompleted},
	}
	for _, task := range tasks {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	pending := domain.TaskStatusPending
	got, err := repo.FindVisible([]string{"a@example.com"}, &pending)
	if err != nil {
		t.Fatalf("FindVisible failed: %v", err)
	}

	want := []string{"high-new", "high-old", "low"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d tasks, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("Position %d: expected %s, got %s", i, title, got[i].Title)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newTestRepo(t)

	task := &domain.Task{Title: "Focus", Priority: 2}
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	task.InWorkingArea = true
	if err := repo.Update(task); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if updated == nil || !updated.InWorkingArea {
		t.Fatalf("Expected the updated task in the working area, got %+v", updated)
	}

	if err := repo.Delete(task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if gone != nil {
		t.Errorf("Expected no task after delete, got %+v", gone)
	}
}

func TestFindDueBetween(t *testing.T) {
	repo := newTestRepo(t)
	zone := time.FixedZone("UTC+2", 2*60*60)
	base := time.Date(2026, 4, 14, 9, 0, 0, 0, zone)

	due := func(d time.Duration) *time.Time {
		v := base.Add(d)
		return &v
	}
	tasks := []*domain.Task{
		{Title: "edge", DueAt: due(0)},
		{Title: "inside", DueAt: due(time.Minute)},
		{Title: "later", DueAt: due(2 * time.Minute)},
		{Title: "hidden", DueAt: due(time.Minute), IsHidden: true},
		{Title: "done", DueAt: due(time.Minute), Status: domain.TaskStatusCompleted},
		{Title: "undated"},
	}
	for _, task := range tasks {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Query bounds in another zone than the stored times.
	got, err := repo.FindDueBetween(base.UTC(), base.Add(time.Minute).UTC())
	if err != nil {
		t.Fatalf("FindDueBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "inside" {
		titles := make([]string, 0, len(got))
		for _, task := range got {
			titles = append(titles, task.Title)
		}
		t.Errorf("Expected only the inside task, got %v", titles)
	}
}
