package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daystart-backend/internal/focus/domain"
	"daystart-backend/internal/focus/repository"
	"daystart-backend/internal/focus/usecase"
	taskdomain "daystart-backend/internal/task/domain"
	"daystart-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type staticTasks []*taskdomain.Task

func (s staticTasks) GetVisibleTasks(status *string) ([]*taskdomain.Task, error) { return s, nil }

func newTestRouter(t *testing.T, tasks staticTasks) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.PomodoroSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewFocusHandler(usecase.NewFocusUsecase(tasks, repository.NewSessionRepository(db), time.UTC))
	r := gin.New()
	r.GET("/api/focus", h.GetState)
	r.POST("/api/focus/assignments/move", h.MoveTask)
	r.POST("/api/focus/select", h.SelectSlot)
	r.POST("/api/focus/complete", h.CompleteSlot)
	r.POST("/api/pomodoro/sessions", h.CreateSession)
	r.GET("/api/pomodoro/sessions", h.ListSessions)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetStateAndMove(t *testing.T) {
	r := newTestRouter(t, staticTasks{
		{ID: 1, Title: "Write report", Priority: 1, InWorkingArea: true},
		{ID: 2, Title: "Inbox zero", Priority: 2, InWorkingArea: true},
	})

	w := doJSON(r, http.MethodGet, "/api/focus", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var state struct {
		CurrentSlot int               `json:"current_slot"`
		Assignments map[string][]uint `json:"assignments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Assignments) != 4 || state.Assignments["0"][0] != 1 {
		t.Errorf("Unexpected assignments %v", state.Assignments)
	}

	w = doJSON(r, http.MethodPost, "/api/focus/assignments/move", map[string]any{"task_id": 2, "slot": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &state)
	if len(state.Assignments["0"]) != 2 || len(state.Assignments["2"]) != 0 {
		t.Errorf("Unexpected assignments after move %v", state.Assignments)
	}

	w = doJSON(r, http.MethodPost, "/api/focus/assignments/move", map[string]any{"task_id": 2, "slot": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a break slot, got %d", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/focus/assignments/move", map[string]any{"task_id": 42, "slot": 2})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for a task outside the working area, got %d", w.Code)
	}
}

func TestCompleteAndSessions(t *testing.T) {
	r := newTestRouter(t, staticTasks{{ID: 5, Title: "Deep work", Priority: 1, InWorkingArea: true}})

	w := doJSON(r, http.MethodPost, "/api/focus/complete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/pomodoro/sessions", map[string]any{"duration": 300, "type": "short_break"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/pomodoro/sessions?limit=10", nil)
	var sessions []domain.PomodoroSession
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}

	w = doJSON(r, http.MethodGet, "/api/pomodoro/sessions?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad limit, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/focus/select", map[string]any{"slot": 9})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an out of range slot, got %d", w.Code)
	}
}
