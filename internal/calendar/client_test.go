package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sadopc/taime/internal/store"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-token")
	c.baseURL = srv.URL
	return c
}

func TestSyncTaskBuildsEvent(t *testing.T) {
	var gotPath, gotAuth string
	var gotEvent event
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotEvent); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		w.Write([]byte(`{"id":"evt1"}`))
	})

	task := store.Task{
		Name:           "Write report",
		Description:    "Quarterly numbers",
		ElapsedSeconds: 3600,
		CompletionDate: "2026-09-01T15:00:00Z",
	}
	if err := c.SyncTask(context.Background(), task); err != nil {
		t.Fatalf("SyncTask: %v", err)
	}

	if gotPath != "/calendars/primary/events" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotEvent.Summary != "Write report" {
		t.Errorf("summary = %q", gotEvent.Summary)
	}
	if gotEvent.Description != "Quarterly numbers" {
		t.Errorf("description = %q", gotEvent.Description)
	}
	end, _ := time.Parse(time.RFC3339, gotEvent.End.DateTime)
	start, _ := time.Parse(time.RFC3339, gotEvent.Start.DateTime)
	if got := end.Sub(start); got != time.Hour {
		t.Errorf("event span = %v, want 1h", got)
	}
	if !end.Equal(time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("event end = %v", end)
	}
}

func TestSyncTaskDefaultDescription(t *testing.T) {
	var gotEvent event
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotEvent)
		w.Write([]byte(`{}`))
	})

	task := store.Task{
		Name:           "Standup",
		ElapsedSeconds: 900,
		CompletionDate: "2026-09-01T10:15:00Z",
	}
	if err := c.SyncTask(context.Background(), task); err != nil {
		t.Fatalf("SyncTask: %v", err)
	}
	if gotEvent.Description != "Tracked with taime." {
		t.Errorf("description = %q", gotEvent.Description)
	}
}

func TestSyncTaskRequiresCompletion(t *testing.T) {
	c := NewClient("tok")
	err := c.SyncTask(context.Background(), store.Task{Name: "Live task"})
	if !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("err = %v, want ErrNotCompleted", err)
	}
}

func TestSyncTaskAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid Credentials"}}`))
	})

	err := c.SyncTask(context.Background(), store.Task{
		Name:           "Task",
		ElapsedSeconds: 60,
		CompletionDate: "2026-09-01T10:00:00Z",
	})
	if err == nil {
		t.Fatal("expected error on 401")
	}
}
