// Package jira is a thin client for logging tracked time against Jira
// issues. Submissions are all-or-nothing: a failed call leaves local
// bookkeeping unchanged.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// issueKeyPattern matches keys like APP-123.
var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]+-\d+$`)

// IsValidIssueKey reports whether key has the XXX-123 shape.
func IsValidIssueKey(key string) bool {
	return issueKeyPattern.MatchString(key)
}

// FormatDuration converts seconds into Jira's worklog format, e.g. "1h 30m".
// Jira rejects sub-minute worklogs, so the floor is "1m".
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 60 {
		return "1m"
	}

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// Config carries the user's Jira credentials.
type Config struct {
	Domain     string // e.g. "example.atlassian.net"
	Email      string
	APIToken   string
	ProjectKey string // optional search scope
}

// Issue is the subset of issue fields the task input surfaces.
type Issue struct {
	Key     string
	Summary string
	Type    string
	Status  string
}

// Client performs authenticated calls against a Jira Cloud instance.
type Client struct {
	cfg     Config
	baseURL string // overridable in tests; defaults to https://<domain>/rest/api/3
	client  *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: fmt.Sprintf("https://%s/rest/api/3", cfg.Domain),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// call performs one API request and returns the raw response body. The
// method/path/body triple is the whole contract; authentication rides along
// as basic auth.
func (c *Client) call(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call jira: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jira returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}

// TestConnection verifies the credentials against the "myself" endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodGet, "myself", nil)
	return err
}

// SearchIssues looks up issues matching term in summary, description or key.
// The term is stripped of JQL metacharacters before interpolation.
func (c *Client) SearchIssues(ctx context.Context, term string) ([]Issue, error) {
	sanitized := strings.TrimSpace(strings.NewReplacer(`'`, "", `"`, "", `;`, "").Replace(term))
	if sanitized == "" {
		return nil, nil
	}

	jql := fmt.Sprintf(`(summary ~ "%s*" OR description ~ "%s*" OR key = "%s")`,
		sanitized, sanitized, strings.ToUpper(sanitized))
	if c.cfg.ProjectKey != "" {
		jql = fmt.Sprintf(`project = '%s' AND %s`, strings.ToUpper(c.cfg.ProjectKey), jql)
	}
	jql += " ORDER BY updated DESC"

	reqBody := map[string]any{
		"jql":        jql,
		"maxResults": 10,
		"fields":     []string{"summary", "key", "issuetype", "status"},
	}

	respBody, err := c.call(ctx, http.MethodPost, "search", reqBody)
	if err != nil {
		return nil, err
	}

	var out struct {
		Issues []struct {
			Key    string `json:"key"`
			Fields struct {
				Summary   string `json:"summary"`
				IssueType struct {
					Name string `json:"name"`
				} `json:"issuetype"`
				Status struct {
					Name string `json:"name"`
				} `json:"status"`
			} `json:"fields"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	issues := make([]Issue, 0, len(out.Issues))
	for _, i := range out.Issues {
		issues = append(issues, Issue{
			Key:     i.Key,
			Summary: i.Fields.Summary,
			Type:    i.Fields.IssueType.Name,
			Status:  i.Fields.Status.Name,
		})
	}
	return issues, nil
}

// LogWork submits a worklog of timeSpentSeconds against issueKey.
func (c *Client) LogWork(ctx context.Context, issueKey string, timeSpentSeconds int64) error {
	if !IsValidIssueKey(issueKey) {
		return fmt.Errorf("invalid issue key %q", issueKey)
	}

	reqBody := map[string]any{
		"timeSpent": FormatDuration(timeSpentSeconds),
		"comment": map[string]any{
			"type":    "doc",
			"version": 1,
			"content": []map[string]any{
				{
					"type": "paragraph",
					"content": []map[string]any{
						{
							"type": "text",
							"text": fmt.Sprintf("Time logged from taime on %s", time.Now().Format("2006-01-02 15:04")),
						},
					},
				},
			},
		},
	}

	_, err := c.call(ctx, http.MethodPost, fmt.Sprintf("issue/%s/worklog", issueKey), reqBody)
	return err
}
