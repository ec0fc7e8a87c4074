package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildPrompt renders the coaching prompt for req.
func BuildPrompt(req BriefingRequest) string {
	events, _ := json.Marshal(req.Events)
	tasks, _ := json.Marshal(req.Tasks)

	return fmt.Sprintf(`You are a supportive morning productivity coach.

TODAY: %s

CONTEXT:
1. User's manual focus for today: %q
2. User's schedule: %s
3. Existing tasks (includes nightly commitments): %s

Please provide:
1. "summary": a concise summary of the day (meetings and priorities, emphasizing the stated focus).
2. "encouragement": a warm, encouraging message to start the day.
3. "tasksWithSteps": the top 3 existing tasks.
   - Prioritize tasks that match the manual focus, then nightly commitments, then remaining urgent or important tasks.
   - For each, give 3-4 micro-steps and a suggested priority (1 = high, 3 = low).
   - Set "taskId" to the task id and "isSuggested" to false.
4. Add 2-3 NEW proposed tasks derived from the schedule (for example "Prepare notes for X meeting").
   - Give 3-4 micro-steps and a priority (1-3) for each.
   - Set "taskId" to null and "isSuggested" to true.

Respond with a single JSON object with the keys summary, encouragement and tasksWithSteps. No other text.`,
		req.Date, req.Focus, events, tasks)
}

// ParseBriefing decodes a model answer, tolerating markdown fences or text
// around the JSON object.
func ParseBriefing(text string) (*Briefing, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	// Models emit numbers as 3 or 3.0, so ids and priorities decode as floats.
	var raw struct {
		Summary        string `json:"summary"`
		Encouragement  string `json:"encouragement"`
		TasksWithSteps []struct {
			TaskID      *float64 `json:"taskId"`
			Title       string   `json:"title"`
			Priority    float64  `json:"priority"`
			IsSuggested bool     `json:"isSuggested"`
			Steps       []string `json:"steps"`
		} `json:"tasksWithSteps"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse briefing JSON: %w", err)
	}

	briefing := &Briefing{
		Summary:        raw.Summary,
		Encouragement:  raw.Encouragement,
		TasksWithSteps: make([]BriefingTask, 0, len(raw.TasksWithSteps)),
	}
	for _, rt := range raw.TasksWithSteps {
		task := BriefingTask{
			Title:       rt.Title,
			Priority:    int(rt.Priority),
			IsSuggested: rt.IsSuggested,
			Steps:       rt.Steps,
		}
		if rt.TaskID != nil && *rt.TaskID > 0 {
			id := uint(*rt.TaskID)
			task.TaskID = &id
		}
		briefing.TasksWithSteps = append(briefing.TasksWithSteps, task)
	}
	return briefing, nil
}
