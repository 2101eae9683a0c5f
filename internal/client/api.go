package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"cfohelper/internal/domain"
)

// DefaultTimeout bounds every call to the account server
const DefaultTimeout = 10 * time.Second

// ErrServerUnreachable is returned when the account server cannot be reached at all
var ErrServerUnreachable = errors.New("could not reach server")

// APIError is a non-2xx answer from the account server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// APIClient talks to the account server over HTTP+JSON
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the server at baseURL
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// BaseURL returns the server address requests are sent to
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type saveHistoryRequest struct {
	Username string              `json:"username"`
	Entry    domain.HistoryEntry `json:"entry"`
}

type usernameRequest struct {
	Username string `json:"username"`
}

// apiResponse covers every body the server sends
type apiResponse struct {
	Message string                `json:"message"`
	History []domain.HistoryEntry `json:"history"`
}

// Signup registers a new account
func (c *APIClient) Signup(ctx context.Context, username, password string) error {
	status, resp, err := c.post(ctx, "/signup", credentialsRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if !ok(status) {
		return &APIError{Status: status, Message: messageOr(resp, "Signup failed")}
	}
	return nil
}

// Login checks credentials. The server issues no token.
func (c *APIClient) Login(ctx context.Context, username, password string) error {
	status, resp, err := c.post(ctx, "/login", credentialsRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if !ok(status) {
		return &APIError{Status: status, Message: messageOr(resp, "Login failed")}
	}
	return nil
}

// SaveHistory submits one entry for username
func (c *APIClient) SaveHistory(ctx context.Context, username string, entry domain.HistoryEntry) error {
	status, resp, err := c.post(ctx, "/save-history", saveHistoryRequest{Username: username, Entry: entry})
	if err != nil {
		return err
	}
	if !ok(status) {
		return &APIError{Status: status, Message: messageOr(resp, "Failed to save history")}
	}
	return nil
}

// GetHistory fetches username's history, newest first.
// A 2xx answer without a readable body yields nil history and no error.
func (c *APIClient) GetHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	status, resp, err := c.post(ctx, "/get-history", usernameRequest{Username: username})
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, &APIError{Status: status, Message: messageOr(resp, "Failed to load history")}
	}
	if resp == nil {
		return nil, nil
	}
	return resp.History, nil
}

// post sends body as JSON and returns the status with the parsed answer.
// resp is nil when the answer is empty or not JSON.
func (c *APIClient) post(ctx context.Context, path string, body interface{}) (int, *apiResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, nil
	}
	return res.StatusCode, safeParse(raw), nil
}

// safeParse decodes a response body, treating empty or malformed input as no data
func safeParse(raw []byte) *apiResponse {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func messageOr(resp *apiResponse, fallback string) string {
	if resp == nil || resp.Message == "" {
		return fallback
	}
	return resp.Message
}
