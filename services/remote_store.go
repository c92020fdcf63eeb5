package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"habitTrackerAPI/internal/types/streak"
	"habitTrackerAPI/internal/types/task"
	"habitTrackerAPI/internal/types/user"
)

// Client is the remote Store implementation: every operation is one HTTP
// round trip against the REST surface. Non-2xx responses surface as typed
// errors carrying the server-provided message when available.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(method+" "+path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method + " " + path, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) errorFrom(op string, resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return &ValidationError{Field: "request", Reason: body.Error}
	default:
		return &TransportError{Op: op, Status: resp.StatusCode, Message: body.Error}
	}
}

func (c *Client) ListUsers(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*user.User, error) {
	u := &user.User{}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{}
	if err := c.do(ctx, http.MethodPost, "/users", req, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req *user.UpdateUserRequest) (*user.User, error) {
	u := &user.User{}
	if err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), req, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]*task.Task, error) {
	query := url.Values{}
	if filter.UserID != "" {
		query.Set("user_id", filter.UserID)
	}
	if filter.Date != "" {
		query.Set("date", filter.Date)
	}
	path := "/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.Task, error) {
	t := &task.Task{}
	if err := c.do(ctx, http.MethodPost, "/tasks", req, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id task.ID, req *task.UpdateTaskRequest) (*task.Task, error) {
	t := &task.Task{}
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id.String()), req, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id task.ID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) DeleteFrozenTasks(ctx context.Context, userID, date string) error {
	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("date", date)
	return c.do(ctx, http.MethodDelete, "/tasks/frozen?"+query.Encode(), nil, nil)
}

func (c *Client) GetUserStreak(ctx context.Context, userID string, today time.Time) (*streak.Response, error) {
	query := url.Values{}
	query.Set("today", today.Format(task.DateLayout))

	resp := &streak.Response{}
	path := "/tasks/streak/" + url.PathEscape(userID) + "?" + query.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) VerifyCredentials(ctx context.Context, email, password string) (*user.User, error) {
	payload := &user.LoginRequest{Email: email, Password: password}

	u := &user.User{}
	err := c.do(ctx, http.MethodPost, "/auth/login", payload, u)
	if err != nil {
		// A rejected login is a uniform nil, not an error.
		var te *TransportError
		if errors.As(err, &te) && te.Status == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
