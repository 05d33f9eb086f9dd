package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient makes REST calls to a devond daemon.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:10001").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchSessions fetches /api/sessions.
func (c *HTTPClient) FetchSessions(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := c.get(ctx, "/api/sessions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchEvents fetches the full ordered event log for a session.
func (c *HTTPClient) FetchEvents(ctx context.Context, sessionID string) ([]Event, error) {
	var out []Event
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/events"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendEvent posts an event to a session's log.
func (c *HTTPClient) AppendEvent(ctx context.Context, sessionID string, ev Event) error {
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/events"
	return c.post(ctx, path, ev, nil)
}

// CreateSession registers a new session with the daemon.
func (c *HTTPClient) CreateSession(ctx context.Context, name string, pid int, workingDir string) (*Session, error) {
	body := map[string]interface{}{
		"name":       name,
		"pid":        pid,
		"workingDir": workingDir,
	}
	var out Session
	if err := c.post(ctx, "/api/sessions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: %d %s", path, resp.StatusCode, string(respBody))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
