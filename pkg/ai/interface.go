package ai

import (
	"context"
)

// EventSummary is the compact form of a calendar entry handed to the model.
type EventSummary struct {
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	AllDay   bool   `json:"allDay,omitempty"`
	Location string `json:"location,omitempty"`
}

// TaskSummary is the compact form of a pending task handed to the model.
type TaskSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	DueAt       string `json:"dueAt,omitempty"`
}

// BriefingRequest is the input of a morning briefing.
type BriefingRequest struct {
	Date   string         `json:"date"`
	Focus  string         `json:"focus"`
	Events []EventSummary `json:"events"`
	Tasks  []TaskSummary  `json:"tasks"`
}

// BriefingTask is one ranked task of a briefing. TaskID is nil for new
// suggestions.
type BriefingTask struct {
	TaskID      *uint    `json:"taskId"`
	Title       string   `json:"title"`
	Priority    int      `json:"priority"`
	IsSuggested bool     `json:"isSuggested"`
	Steps       []string `json:"steps"`
}

// Briefing is the model's answer.
type Briefing struct {
	Summary        string         `json:"summary"`
	Encouragement  string         `json:"encouragement"`
	TasksWithSteps []BriefingTask `json:"tasksWithSteps"`
}

// BriefingService generates morning briefings.
// Implement this interface to add new AI providers.
type BriefingService interface {
	GenerateBriefing(ctx context.Context, req BriefingRequest) (*Briefing, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// ParseProvider maps a configuration value to a provider, defaulting to auto.
func ParseProvider(value string) ProviderType {
	switch ProviderType(value) {
	case ProviderGemini, ProviderOllama:
		return ProviderType(value)
	default:
		return ProviderAuto
	}
}
