package signupcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client calls the signup service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Activities fetches GET /activities.
func (c *Client) Activities(ctx context.Context) (map[string]Activity, error) {
	var out map[string]Activity
	status, err := c.do(ctx, http.MethodGet, "/activities", &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: GET /activities returned %d", ErrUnexpectedStatus, status)
	}
	return out, nil
}

// Signup calls POST /activities/{name}/signup and returns the status and
// the message or detail from the body.
func (c *Client) Signup(ctx context.Context, activity, email string) (int, string, error) {
	return c.register(ctx, http.MethodPost, activity, "signup", email)
}

// Unregister calls DELETE /activities/{name}/unregister.
func (c *Client) Unregister(ctx context.Context, activity, email string) (int, string, error) {
	return c.register(ctx, http.MethodDelete, activity, "unregister", email)
}

func (c *Client) register(ctx context.Context, method, activity, action, email string) (int, string, error) {
	path := "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
	var body struct {
		messageResponse
		errorResponse
	}
	status, err := c.do(ctx, method, path, &body)
	if err != nil {
		return 0, "", err
	}
	if body.Message != "" {
		return status, body.Message, nil
	}
	return status, body.Detail, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
