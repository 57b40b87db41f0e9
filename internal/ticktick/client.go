package ticktick

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the TickTick API host.
const DefaultBaseURL = "https://api.ticktick.com"

// ErrTaskNotFound is returned when a task ID does not exist upstream.
var ErrTaskNotFound = errors.New("task not found")

// Client talks to the TickTick API. It combines the session-based v2 API
// (sign-on, full-state sync, batch updates) with the OAuth-protected Open
// API (task CRUD). All state lives upstream; the client holds only the
// session token and the inbox project ID learned at sign-on.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokenSource  oauth2.TokenSource
	sessionToken string

	// mu guards inboxID, which every Sync rewrites while concurrent tool
	// handlers share one client. The session token is written once during
	// NewClient, before the client is shared.
	mu      sync.RWMutex
	inboxID string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host. Used by tests to point the client at
// a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenSource supplies the OAuth2 token source used for Open API
// requests. Without it, requests carry only the session token.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// NewClient signs on to the TickTick v2 API with the account credentials
// and returns a ready client.
func NewClient(ctx context.Context, creds Credentials, opts ...Option) (*Client, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("ticktick: username and password are required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.signon(ctx, creds); err != nil {
		return nil, err
	}
	return c, nil
}

// InboxID returns the ID of the account's inbox project.
func (c *Client) InboxID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inboxID
}

func (c *Client) setInboxID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inboxID = id
}

// signon authenticates against the v2 session endpoint and stores the
// session token.
func (c *Client) signon(ctx context.Context, creds Credentials) error {
	body := map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	}
	data, err := c.do(ctx, http.MethodPost, "/api/v2/user/signon?wc=true&remember=true", body)
	if err != nil {
		return fmt.Errorf("sign-on failed: %w", err)
	}

	token := gjson.GetBytes(data, "token").String()
	if token == "" {
		return fmt.Errorf("sign-on response contained no session token")
	}
	c.sessionToken = token
	c.setInboxID(gjson.GetBytes(data, "inboxId").String())
	return nil
}

// Sync fetches the full account state from the batch check endpoint.
func (c *Client) Sync(ctx context.Context) (*State, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v2/batch/check/0", nil)
	if err != nil {
		return nil, fmt.Errorf("sync failed: %w", err)
	}

	state := &State{InboxID: gjson.GetBytes(data, "inboxId").String()}
	if state.InboxID != "" {
		c.setInboxID(state.InboxID)
	}

	if raw := gjson.GetBytes(data, "syncTaskBean.update").Raw; raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Tasks); err != nil {
			return nil, fmt.Errorf("failed to decode synced tasks: %w", err)
		}
	}
	if raw := gjson.GetBytes(data, "projectProfiles").Raw; raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Projects); err != nil {
			return nil, fmt.Errorf("failed to decode synced projects: %w", err)
		}
	}
	if raw := gjson.GetBytes(data, "tags").Raw; raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode synced tags: %w", err)
		}
	}
	return state, nil
}

// Tasks returns all uncompleted-or-recently-touched tasks from the synced
// account state.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	state, err := c.Sync(ctx)
	if err != nil {
		return nil, err
	}
	return state.Tasks, nil
}

// Projects returns all projects from the synced account state.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	state, err := c.Sync(ctx)
	if err != nil {
		return nil, err
	}
	return state.Projects, nil
}

// Tags returns all tags from the synced account state.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	state, err := c.Sync(ctx)
	if err != nil {
		return nil, err
	}
	return state.Tags, nil
}

// GetTask looks a task up by ID in the synced state. Returns
// ErrTaskNotFound when no task carries the ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	state, err := c.Sync(ctx)
	if err != nil {
		return nil, err
	}
	for i := range state.Tasks {
		if state.Tasks[i].ID == taskID {
			return &state.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
}

// CreateTask creates a task through the Open API. An empty ProjectID
// targets the inbox.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	task := Task{
		Title:     input.Title,
		Content:   input.Content,
		ProjectID: input.ProjectID,
		Tags:      input.Tags,
	}
	if input.DueDate != "" {
		due, err := normalizeDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if input.Priority != nil {
		if !ValidPriority(*input.Priority) {
			return nil, fmt.Errorf("invalid priority %d: must be 0 (none), 1 (high), 3 (medium), or 5 (low)", *input.Priority)
		}
		task.Priority = *input.Priority
	}

	data, err := c.do(ctx, http.MethodPost, "/open/v1/task", task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	var created Task
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created task: %w", err)
	}
	return &created, nil
}

// UpdateTask applies the set fields of input to an existing task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, input TaskInput) (*Task, error) {
	existing, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task := *existing
	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Content != "" {
		task.Content = input.Content
	}
	if input.DueDate != "" {
		due, err := normalizeDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if input.ProjectID != "" {
		task.ProjectID = input.ProjectID
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if input.Priority != nil {
		if !ValidPriority(*input.Priority) {
			return nil, fmt.Errorf("invalid priority %d: must be 0 (none), 1 (high), 3 (medium), or 5 (low)", *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}

	data, err := c.do(ctx, http.MethodPost, "/open/v1/task/"+taskID, task)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	var updated Task
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated task: %w", err)
	}
	return &updated, nil
}

// DeleteTask removes a task through the Open API.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	projectID := task.ProjectID
	if projectID == "" {
		projectID = c.InboxID()
	}

	if _, err := c.do(ctx, http.MethodDelete, "/open/v1/project/"+projectID+"/task/"+taskID, nil); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return nil
}

// CompleteTask marks a task completed via the v2 batch update endpoint.
func (c *Client) CompleteTask(ctx context.Context, taskID string) (*Task, error) {
	return c.setStatus(ctx, taskID, StatusCompleted)
}

// IncompleteTask marks a completed task incomplete again.
func (c *Client) IncompleteTask(ctx context.Context, taskID string) (*Task, error) {
	return c.setStatus(ctx, taskID, StatusIncomplete)
}

func (c *Client) setStatus(ctx context.Context, taskID string, status int) (*Task, error) {
	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	updated := *task
	updated.Status = status
	if status == StatusCompleted {
		updated.CompletedTime = time.Now().Format(TimeFormat)
	} else {
		updated.CompletedTime = ""
	}

	body := map[string][]Task{"update": {updated}}
	if _, err := c.do(ctx, http.MethodPost, "/api/v2/batch/task", body); err != nil {
		return nil, fmt.Errorf("failed to set status of task %s: %w", taskID, err)
	}
	return &updated, nil
}

// SearchTasks returns tasks whose title or content contains the query,
// case-insensitively. A limit of 0 means no limit.
func (c *Client) SearchTasks(ctx context.Context, query string, limit int) ([]Task, error) {
	tasks, err := c.Tasks(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Content), needle) {
			matches = append(matches, t)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

// normalizeDueDate accepts either a bare date or an ISO datetime and
// renders it in the API's time format. Bare dates are kept in UTC.
func normalizeDueDate(s string) (string, error) {
	t, err := ParseTime(s)
	if err != nil {
		return "", fmt.Errorf("invalid date format %q: use YYYY-MM-DD or ISO 8601", s)
	}
	return t.Format(TimeFormat), nil
}

// do performs an API request and returns the response body. Session and
// OAuth credentials are attached when present.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: "t", Value: c.sessionToken})
	}
	if c.tokenSource != nil {
		tok, err := c.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to obtain OAuth token: %w", err)
		}
		tok.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: snippet(data)}
	}
	return data, nil
}

// APIError is an upstream HTTP error response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ticktick API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("ticktick API error: status %d: %s", e.StatusCode, e.Body)
}

// snippet truncates a response body for error messages.
func snippet(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
