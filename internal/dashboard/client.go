// Package dashboard is the client side of the booking list views: an HTTP
// client for the admin API and a View that keeps a list's filters, its
// shareable query string and the fetched page together.
package dashboard

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

	"github.com/rescuegrid/dispatch-admin/internal/model"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the admin API
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Meta struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

// Client talks to the admin API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client. httpClient may be nil.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// SetToken replaces the bearer token
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges admin credentials for an access token and keeps it for
// later calls
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	body, err := json.Marshal(model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body), &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// ListBookings fetches one page of bookings for the given list query
func (c *Client) ListBookings(ctx context.Context, query url.Values) (*model.BookingPage, error) {
	path := "/api/v1/bookings"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page model.BookingPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: res.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest || !env.Meta.Success {
		return &APIError{
			StatusCode: res.StatusCode,
			Message:    env.Meta.Message,
			Details:    env.Meta.Details,
		}
	}

	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
