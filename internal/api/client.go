package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/store"
)

// Client is a store.Repository backed by a remote prio server. Scores sent
// by the server are discarded; callers rank locally.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ store.Repository = (*Client)(nil)

// NewClient returns a client for the server at baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var out []TaskJSON
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]model.Task, len(out))
	for i, t := range out {
		tasks[i] = t.model()
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id string) (model.Task, error) {
	var out TaskJSON
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return out.model(), nil
}

func (c *Client) Add(ctx context.Context, n model.NewTask) (model.Task, error) {
	req := CreateTaskRequest{Name: n.Name, Deadline: n.Deadline, Importance: n.Importance, Effort: n.Effort, Imported: n.Imported}
	var out TaskJSON
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}
	return out.model(), nil
}

func (c *Client) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	var out TaskJSON
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/toggle_complete", nil, &out); err != nil {
		return model.Task{}, fmt.Errorf("toggle task %s: %w", id, err)
	}
	return out.model(), nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Watch subscribes to the server's change feed. The returned channel is
// closed when ctx is cancelled or the connection drops.
func (c *Client) Watch(ctx context.Context) (<-chan Event, error) {
	wsURL, err := url.Parse(c.baseURL + "/api/ws")
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial change feed: %w", err)
	}

	events := make(chan Event)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return store.ErrNotFound
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", model.ErrInvalidTask, strings.TrimPrefix(e.Error, model.ErrInvalidTask.Error()+": "))
		default:
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
