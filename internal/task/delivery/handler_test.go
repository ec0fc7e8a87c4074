package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daystart-backend/internal/task/domain"
	"daystart-backend/internal/task/repository"
	"daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewTaskHandler(usecase.NewTaskUsecase(repository.NewGormTaskRepository(db), time.UTC))
	r := gin.New()
	r.GET("/api/tasks", h.GetTasks)
	r.POST("/api/tasks", h.CreateTask)
	r.GET("/api/tasks/:id", h.GetTaskByID)
	r.PATCH("/api/tasks/:id", h.UpdateTask)
	r.DELETE("/api/tasks/:id", h.DeleteTask)
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

func TestTaskLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/tasks", map[string]any{"title": "Plan sprint", "priority": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	path := fmt.Sprintf("/api/tasks/%d", created.ID)
	w = doJSON(r, http.MethodPatch, path, map[string]any{"in_working_area": true})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on patch, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/tasks", nil)
	var tasks []domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].InWorkingArea {
		t.Fatalf("Expected one working-area task, got %+v", tasks)
	}

	w = doJSON(r, http.MethodDelete, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, path, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestCreateTaskRejectsBadInput(t *testing.T) {
	r := newTestRouter(t)

	if w := doJSON(r, http.MethodPost, "/api/tasks", map[string]any{"priority": 1}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without title, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/api/tasks", map[string]any{"title": "x", "priority": 7}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for priority 7, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/tasks/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad id, got %d", w.Code)
	}
}
