// Package calendar syncs completed tasks to Google Calendar as events.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sadopc/taime/internal/store"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// ErrNotCompleted is returned when a task without a completion
// timestamp is passed to SyncTask. Only archived tasks carry one.
var ErrNotCompleted = errors.New("task has no completion date")

type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		token:   accessToken,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type event struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
}

// SyncTask inserts a calendar event covering the span the task was
// tracked for. The event ends at the task's completion timestamp and
// starts elapsedSeconds before it.
func (c *Client) SyncTask(ctx context.Context, task store.Task) error {
	if task.CompletionDate == "" {
		return ErrNotCompleted
	}
	end, err := time.Parse(time.RFC3339, task.CompletionDate)
	if err != nil {
		return fmt.Errorf("parsing completion date: %w", err)
	}
	start := end.Add(-time.Duration(task.ElapsedSeconds) * time.Second)

	description := task.Description
	if description == "" {
		description = "Tracked with taime."
	}
	ev := event{
		Summary:     task.Name,
		Description: description,
		Start:       eventTime{DateTime: start.Format(time.RFC3339)},
		End:         eventTime{DateTime: end.Format(time.RFC3339)},
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	url := c.baseURL + "/calendars/primary/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling calendar api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("calendar api returned %d: %s", resp.StatusCode, data)
	}
	return nil
}
