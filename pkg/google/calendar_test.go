package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"
)

func TestListEventsIsolatesFailingCalendars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "work", "summary": "Work"},
				{"id": "broken", "summary": "Broken"},
			},
		})
	})
	mux.HandleFunc("/calendars/work/events", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("singleEvents") != "true" || r.URL.Query().Get("orderBy") != "startTime" {
			t.Errorf("Expected expanded, ordered events, got %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":       "standup",
					"summary":  "Standup",
					"htmlLink": "https://calendar.example/standup",
					"start":    map[string]string{"dateTime": "2026-04-14T09:00:00Z"},
					"end":      map[string]string{"dateTime": "2026-04-14T09:15:00Z"},
				},
				{
					"id":      "offsite",
					"summary": "Offsite",
					"start":   map[string]string{"date": "2026-04-14"},
					"end":     map[string]string{"date": "2026-04-15"},
				},
			},
		})
	})
	mux.HandleFunc("/calendars/broken/events", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"gone"}}`, http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewCalendarService(option.WithEndpoint(server.URL + "/"))
	from := time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC)
	events, err := svc.ListEvents(context.Background(), server.Client(), "me@example.com", from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].ID != "standup" || events[0].CalendarName != "Work" || events[0].AccountEmail != "me@example.com" {
		t.Errorf("Unexpected event %+v", events[0])
	}
	if events[0].HTMLLink == "" || events[0].Start.DateTime != "2026-04-14T09:00:00Z" {
		t.Errorf("Expected timed start and link, got %+v", events[0])
	}
	if !events[1].Start.IsAllDay() || events[1].Start.Date != "2026-04-14" {
		t.Errorf("Expected all-day event, got %+v", events[1].Start)
	}
}

func TestListEventsFailsWhenCalendarListFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":401,"message":"unauthorized"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewCalendarService(option.WithEndpoint(server.URL + "/"))
	now := time.Now()
	if _, err := svc.ListEvents(context.Background(), server.Client(), "me@example.com", now, now.Add(time.Hour)); err == nil {
		t.Errorf("Expected an error when the calendar list cannot be read")
	}
}

func TestAuthCodeURLRequestsOfflineConsent(t *testing.T) {
	c := NewOAuthClient("client-id", "secret", "http://localhost:3000/auth/callback")
	url := c.AuthCodeURL("state-123")

	for _, want := range []string{"access_type=offline", "prompt=consent", "state=state-123", "calendar.readonly", "userinfo.email"} {
		if !strings.Contains(url, want) {
			t.Errorf("Expected %q in %s", want, url)
		}
	}
}

