package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(cfg)
	c.baseURL = srv.URL
	return c
}

// ============================================================
// Duration formatting
// ============================================================

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "1m"},
		{59, "1m"},
		{60, "1m"},
		{90, "1m"},
		{120, "2m"},
		{3600, "1h"},
		{5400, "1h 30m"},
		{9000, "2h 30m"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

// ============================================================
// Issue key validation
// ============================================================

func TestIsValidIssueKey(t *testing.T) {
	valid := []string{"APP-1", "PROJ-123", "A2B-9"}
	invalid := []string{"", "app-1", "A-1", "1AB-2", "APP123", "APP-", "-123"}

	for _, k := range valid {
		if !IsValidIssueKey(k) {
			t.Errorf("IsValidIssueKey(%q) = false, want true", k)
		}
	}
	for _, k := range invalid {
		if IsValidIssueKey(k) {
			t.Errorf("IsValidIssueKey(%q) = true, want false", k)
		}
	}
}

// ============================================================
// API calls
// ============================================================

func TestLogWork(t *testing.T) {
	var gotPath, gotUser, gotToken string
	var gotBody map[string]any

	c := newTestClient(t, Config{Email: "me@example.com", APIToken: "secret"},
		func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, gotToken, _ = r.BasicAuth()
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		})

	if err := c.LogWork(context.Background(), "APP-42", 5400); err != nil {
		t.Fatalf("LogWork: %v", err)
	}
	if gotPath != "/issue/APP-42/worklog" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotUser != "me@example.com" || gotToken != "secret" {
		t.Fatalf("basic auth = %q/%q", gotUser, gotToken)
	}
	if gotBody["timeSpent"] != "1h 30m" {
		t.Fatalf("timeSpent = %v, want 1h 30m", gotBody["timeSpent"])
	}
}

func TestLogWorkRejectsInvalidKey(t *testing.T) {
	c := NewClient(Config{})
	err := c.LogWork(context.Background(), "not-a-key", 60)
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLogWorkServerErrorSurfaces(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["worklog invalid"]}`))
	})
	err := c.LogWork(context.Background(), "APP-1", 60)
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSearchIssuesSanitizesJQL(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, Config{ProjectKey: "app"}, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"issues":[{"key":"APP-7","fields":{"summary":"login fix","issuetype":{"name":"Bug"},"status":{"name":"Open"}}}]}`))
	})

	issues, err := c.SearchIssues(context.Background(), `login'; DROP`)
	if err != nil {
		t.Fatalf("SearchIssues: %v", err)
	}

	jql, _ := gotBody["jql"].(string)
	if strings.Contains(jql, ";") || strings.Contains(jql, "login'") {
		t.Fatalf("jql not sanitized: %q", jql)
	}
	if !strings.Contains(jql, `summary ~ "login DROP*"`) {
		t.Fatalf("search term missing: %q", jql)
	}
	if !strings.HasPrefix(jql, "project = 'APP'") {
		t.Fatalf("project scope missing: %q", jql)
	}

	if len(issues) != 1 || issues[0].Key != "APP-7" || issues[0].Type != "Bug" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestSearchIssuesEmptyTermSkipsCall(t *testing.T) {
	c := NewClient(Config{})
	issues, err := c.SearchIssues(context.Background(), `'";`)
	if err != nil || issues != nil {
		t.Fatalf("expected nil/nil for empty sanitized term, got %v/%v", issues, err)
	}
}

func TestTestConnection(t *testing.T) {
	var gotPath string
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"accountId":"abc"}`))
	})
	if err := c.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if gotPath != "/myself" {
		t.Fatalf("path = %q", gotPath)
	}
}
