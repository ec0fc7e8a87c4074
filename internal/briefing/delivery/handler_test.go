package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"daystart-backend/internal/briefing/usecase"
	taskdomain "daystart-backend/internal/task/domain"
	"daystart-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

type fakeBriefing struct {
	usecase.BriefingUsecase
	input usecase.GenerateInput
	err   error
}

func (f *fakeBriefing) Generate(ctx context.Context, input usecase.GenerateInput) (*usecase.Briefing, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.Briefing{Date: "2026-04-14", Summary: "ok"}, nil
}

func (f *fakeBriefing) Accept(input usecase.AcceptInput) (*taskdomain.Task, error) {
	return &taskdomain.Task{ID: 5, Title: input.Title, Priority: input.Priority}, nil
}

func newTestRouter(f *fakeBriefing) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBriefingHandler(f)
	r := gin.New()
	r.POST("/api/briefing", h.Generate)
	r.POST("/api/briefing/accept", h.Accept)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate(t *testing.T) {
	f := &fakeBriefing{}
	r := newTestRouter(f)

	w := post(r, "/api/briefing", `{"focus":"writing","date":"2026-04-14"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if f.input.Focus != "writing" || f.input.Date != "2026-04-14" {
		t.Errorf("Unexpected input %+v", f.input)
	}

	if w := post(r, "/api/briefing", ""); w.Code != http.StatusOK {
		t.Errorf("Expected an empty body to be accepted, got %d", w.Code)
	}

	f.err = usecase.ErrInvalidDate
	if w := post(r, "/api/briefing", `{"date":"x"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}

	f.err = fmt.Errorf("generate briefing: %w", ai.ErrNoProvider)
	if w := post(r, "/api/briefing", `{}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}

	f.err = errors.New("all AI providers failed")
	w = post(r, "/api/briefing", `{}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Failed to generate briefing" {
		t.Errorf("Unexpected error body %v", body)
	}
}

func TestAccept(t *testing.T) {
	r := newTestRouter(&fakeBriefing{})

	w := post(r, "/api/briefing/accept", `{"title":"Prep slides","priority":1,"steps":["a"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Success bool             `json:"success"`
		Task    *taskdomain.Task `json:"task"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Task == nil || body.Task.Title != "Prep slides" {
		t.Errorf("Unexpected response %+v", body)
	}

	if w := post(r, "/api/briefing/accept", `{"priority":1}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a title, got %d", w.Code)
	}
}
