package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sadopc/taime/internal/store"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-2.5-flash"
)

// Category is one AI-suggested grouping of tasks.
type Category struct {
	CategoryName string   `json:"categoryName"`
	Tasks        []string `json:"tasks"`
	TotalTime    int64    `json:"totalTime"` // seconds
}

// Result is the categorization and insight payload returned by the service.
type Result struct {
	Categories []Category `json:"categories"`
	Insights   []string   `json:"insights"`
}

// Client calls the Gemini API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type taskPayload struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	JiraIssueKey string `json:"jiraIssueKey,omitempty"`
	TimeSeconds  int64  `json:"time_seconds"`
}

// Analyze sends aggregated tasks for categorization. A failed call or a
// response without categories and insights is an error; nothing local
// changes either way.
func (c *Client) Analyze(ctx context.Context, tasks []store.Task, language string) (*Result, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("no tasks to analyze")
	}

	payload := make([]taskPayload, 0, len(tasks))
	for _, t := range tasks {
		payload = append(payload, taskPayload{
			Name:         t.Name,
			Description:  t.Description,
			JiraIssueKey: t.JiraIssueKey,
			TimeSeconds:  t.ElapsedSeconds,
		})
	}
	taskData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task data: %w", err)
	}

	text, err := c.generate(ctx, analysisPrompt(string(taskData), language), true)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	if result.Categories == nil || result.Insights == nil {
		return nil, fmt.Errorf("analysis response missing categories or insights")
	}
	return &result, nil
}

// RealtimeInsight asks for a one-sentence coaching message for the task the
// user has been working on. Failures surface as errors for the caller to
// report; there is no retry.
func (c *Client) RealtimeInsight(ctx context.Context, taskName string, elapsedSeconds int64, language string) (string, error) {
	text, err := c.generate(ctx, realtimePrompt(taskName, elapsedSeconds, language), false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// generate performs one generateContent call and returns the first text part.
func (c *Client) generate(ctx context.Context, prompt string, jsonResponse bool) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if jsonResponse {
		reqBody.GenerationConfig = &generationConfig{ResponseMIMEType: "application/json"}
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, geminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
