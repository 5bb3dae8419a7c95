package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tasktrove/internal/model"
)

// Client is a thin wrapper over the server's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("server returned %s", res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListTasks(status string) ([]model.Task, error) {
	var out []model.Task
	path := "/api/tasks"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	err := c.do(http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) QuickAdd(text string) (model.Task, error) {
	var out model.Task
	err := c.do(http.MethodPost, "/api/tasks/quickadd", map[string]string{"text": text}, &out)
	return out, err
}

type CompleteResponse struct {
	Task        model.Task `json:"task"`
	Completed   bool       `json:"completed"`
	Rescheduled bool       `json:"rescheduled"`
	NextDue     string     `json:"nextDue"`
}

func (c *Client) Complete(id model.TaskID) (CompleteResponse, error) {
	var out CompleteResponse
	err := c.do(http.MethodPost, "/api/tasks/"+string(id)+"/complete", nil, &out)
	return out, err
}

func (c *Client) Reopen(id model.TaskID) (model.Task, error) {
	var out model.Task
	err := c.do(http.MethodPatch, "/api/tasks/"+string(id), map[string]any{"done": false}, &out)
	return out, err
}

func (c *Client) Delete(id model.TaskID) error {
	return c.do(http.MethodDelete, "/api/tasks/"+string(id), nil, nil)
}

type FocusSession struct {
	ID             string `json:"id"`
	TaskID         string `json:"taskId"`
	StartedAt      string `json:"startedAt"`
	PlannedMinutes int    `json:"plannedMinutes"`
}

func (c *Client) FocusStart(taskID model.TaskID, minutes int) (FocusSession, error) {
	var out FocusSession
	err := c.do(http.MethodPost, "/api/focus/start", map[string]any{
		"taskId":  string(taskID),
		"minutes": minutes,
	}, &out)
	return out, err
}

func (c *Client) FocusStop() (int, error) {
	var out struct {
		Minutes int `json:"minutes"`
	}
	err := c.do(http.MethodPost, "/api/focus/stop", nil, &out)
	return out.Minutes, err
}

type Stats struct {
	TaskCompletions int `json:"task_completions"`
	StreakDays      int `json:"streak_days"`
	FocusMinutes    int `json:"focus_minutes"`
}

func (c *Client) Stats(days int) (Stats, error) {
	var out Stats
	err := c.do(http.MethodGet, fmt.Sprintf("/api/analytics/stats?days=%d", days), nil, &out)
	return out, err
}
