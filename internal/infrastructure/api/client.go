package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tempo/internal/application/dto"
	"tempo/internal/infrastructure/config"
)

// Client talks to the task service over HTTP. It implements
// repository.TaskAPI.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a task API client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.API.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		},
	}
}

// ListTasks fetches all top-level tasks with their subtasks.
func (c *Client) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	var tasks []dto.TaskDTO
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListInstances fetches all scheduled occurrences of recurring tasks.
func (c *Client) ListInstances(ctx context.Context) ([]dto.InstanceDTO, error) {
	var instances []dto.InstanceDTO
	if err := c.do(ctx, http.MethodGet, "/api/instances", nil, &instances); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return instances, nil
}

// UpdateTask applies a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch dto.TaskPatch) (dto.TaskDTO, error) {
	var task dto.TaskDTO
	path := fmt.Sprintf("/api/tasks/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, patch, &task); err != nil {
		return dto.TaskDTO{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, nil
}

// UpdateInstance applies a partial update and returns the updated
// instance.
func (c *Client) UpdateInstance(ctx context.Context, id int64, patch dto.InstancePatch) (dto.InstanceDTO, error) {
	var inst dto.InstanceDTO
	path := fmt.Sprintf("/api/instances/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, patch, &inst); err != nil {
		return dto.InstanceDTO{}, fmt.Errorf("update instance %d: %w", id, err)
	}
	return inst, nil
}

// do sends one JSON request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
