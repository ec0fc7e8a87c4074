package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

const sampleBriefing = `{"summary":"Two meetings","encouragement":"You got this","tasksWithSteps":[{"taskId":3.0,"title":"Write report","priority":1,"isSuggested":false,"steps":["Outline","Draft"]},{"taskId":null,"title":"Prep standup","priority":2,"isSuggested":true,"steps":["List blockers"]}]}`

type fakeBriefer struct {
	calls int
	errs  []error
}

func (f *fakeBriefer) GenerateBriefing(ctx context.Context, req BriefingRequest) (*Briefing, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &Briefing{Summary: "ok"}, nil
}

type fakeGenerator struct {
	text   string
	prompt string
	schema *genai.Schema
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.prompt = prompt
	f.schema = schema
	return f.text, nil
}

func TestParseBriefing(t *testing.T) {
	b, err := ParseBriefing("```json\n" + sampleBriefing + "\n```")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Summary != "Two meetings" || len(b.TasksWithSteps) != 2 {
		t.Fatalf("Unexpected briefing %+v", b)
	}
	first := b.TasksWithSteps[0]
	if first.TaskID == nil || *first.TaskID != 3 || first.Priority != 1 || len(first.Steps) != 2 {
		t.Errorf("Unexpected first task %+v", first)
	}
	if b.TasksWithSteps[1].TaskID != nil || !b.TasksWithSteps[1].IsSuggested {
		t.Errorf("Expected a suggested task without id, got %+v", b.TasksWithSteps[1])
	}

	if _, err := ParseBriefing("sorry, I cannot help"); err == nil {
		t.Errorf("Expected an error for a non-JSON answer")
	}
}

func TestBuildPromptCarriesContext(t *testing.T) {
	prompt := BuildPrompt(BriefingRequest{
		Date:   "2026-04-14",
		Focus:  "ship the release",
		Events: []EventSummary{{Summary: "Standup", Start: "2026-04-14T09:00:00Z"}},
		Tasks:  []TaskSummary{{ID: 4, Title: "Write notes", Priority: 2}},
	})
	for _, want := range []string{"2026-04-14", `"ship the release"`, "Standup", "Write notes", "tasksWithSteps"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt is missing %q", want)
		}
	}
}

func TestOllamaGenerateBriefing(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": sampleBriefing, "done": true})
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "mistral")
	b, err := svc.GenerateBriefing(context.Background(), BriefingRequest{Focus: "x"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Encouragement != "You got this" {
		t.Errorf("Unexpected briefing %+v", b)
	}
	if got["model"] != "mistral" || got["format"] != "json" || got["stream"] != false {
		t.Errorf("Unexpected payload %v", got)
	}
}

func TestOllamaErrorsAndPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "")
	if _, err := svc.GenerateBriefing(context.Background(), BriefingRequest{}); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected a 404 error, got %v", err)
	}
	if err := svc.Ping(context.Background(), ""); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}

	server.Close()
	if err := svc.Ping(context.Background(), ""); err == nil {
		t.Errorf("Expected ping against a closed server to fail")
	}
}

func TestOllamaGettersAreDynamic(t *testing.T) {
	url := ""
	svc := NewOllamaServiceWithGetters(func() string { return url }, nil)
	if svc.getBaseURL() != DefaultOllamaBaseURL || svc.getModel() != DefaultOllamaModel {
		t.Errorf("Expected defaults, got %s %s", svc.getBaseURL(), svc.getModel())
	}
	url = "http://ollama:11434"
	if svc.getBaseURL() != url {
		t.Errorf("Expected runtime value, got %s", svc.getBaseURL())
	}
}

func TestFallbackGeminiFirst(t *testing.T) {
	gemini := &fakeBriefer{}
	ollama := &fakeBriefer{}
	if _, err := NewFallbackService(gemini, ollama).GenerateBriefing(context.Background(), BriefingRequest{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gemini.calls != 1 || ollama.calls != 0 {
		t.Errorf("Expected only gemini to be called, got gemini=%d ollama=%d", gemini.calls, ollama.calls)
	}
}

func TestFallbackToOllamaOnQuota(t *testing.T) {
	gemini := &fakeBriefer{errs: []error{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")}}
	ollama := &fakeBriefer{}
	if _, err := NewFallbackService(gemini, ollama).GenerateBriefing(context.Background(), BriefingRequest{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ollama.calls != 1 {
		t.Errorf("Expected ollama fallback, got %d calls", ollama.calls)
	}
}

func TestFallbackRetriesGeminiWhenOllamaUnreachable(t *testing.T) {
	gemini := &fakeBriefer{errs: []error{errors.New("internal error")}}
	ollama := &fakeBriefer{errs: []error{errors.New("dial tcp 127.0.0.1:11434: connection refused")}}
	if _, err := NewFallbackService(gemini, ollama).GenerateBriefing(context.Background(), BriefingRequest{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gemini.calls != 2 {
		t.Errorf("Expected gemini retry, got %d calls", gemini.calls)
	}
}

func TestFallbackAllFail(t *testing.T) {
	gemini := &fakeBriefer{errs: []error{errors.New("quota exceeded")}}
	ollama := &fakeBriefer{errs: []error{errors.New("connection refused")}}
	_, err := NewFallbackService(gemini, ollama).GenerateBriefing(context.Background(), BriefingRequest{})
	if err == nil || !strings.Contains(err.Error(), "all AI providers failed") {
		t.Errorf("Expected a combined error, got %v", err)
	}
	if gemini.calls != 1 {
		t.Errorf("Expected no gemini retry after a quota error, got %d calls", gemini.calls)
	}

	if _, err := NewFallbackService(nil, nil).GenerateBriefing(context.Background(), BriefingRequest{}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}
}

func TestGeminiServiceUsesSchema(t *testing.T) {
	gen := &fakeGenerator{text: sampleBriefing}
	b, err := NewGeminiService(gen).GenerateBriefing(context.Background(), BriefingRequest{Focus: "deep work"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gen.schema == nil || !strings.Contains(gen.prompt, "deep work") {
		t.Errorf("Expected prompt and schema to be forwarded")
	}
	if len(b.TasksWithSteps) != 2 {
		t.Errorf("Unexpected briefing %+v", b)
	}
}

func TestRouterHonorsProvider(t *testing.T) {
	provider := ProviderGemini
	router := NewRouter(nil, NewOllamaService("http://127.0.0.1:1", ""), func() ProviderType { return provider })
	if _, err := router.GenerateBriefing(context.Background(), BriefingRequest{}); err == nil {
		t.Errorf("Expected an error when gemini is selected without a key")
	}

	gemini := &fakeBriefer{}
	router = NewRouter(gemini, nil, func() ProviderType { return provider })
	if _, err := router.GenerateBriefing(context.Background(), BriefingRequest{}); err != nil || gemini.calls != 1 {
		t.Errorf("Expected gemini to serve the briefing, err=%v calls=%d", err, gemini.calls)
	}
	if !router.HasGemini() {
		t.Errorf("Expected HasGemini to be true")
	}

	provider = ProviderAuto
	if _, err := router.GenerateBriefing(context.Background(), BriefingRequest{}); err != nil || gemini.calls != 2 {
		t.Errorf("Expected auto to try gemini first, err=%v calls=%d", err, gemini.calls)
	}
}

func TestParseProvider(t *testing.T) {
	if ParseProvider("ollama") != ProviderOllama || ParseProvider("gemini") != ProviderGemini || ParseProvider("") != ProviderAuto {
		t.Errorf("Unexpected provider parsing")
	}
}
