package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fittrack-client/internal/models"
	"fittrack-client/internal/session"
)

// Client issues requests against the fitness backend. Authenticated calls
// read the token from the session before any network I/O and fail with
// session.ErrNoToken or session.ErrInvalidToken without sending anything.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
}

func NewClient(baseURL string, httpClient *http.Client, sess *session.Session) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    sess,
	}
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type request struct {
	method string
	path   string
	token  string
	body   interface{}
}

// subject resolves the token and username for per-user paths.
func (c *Client) subject(ctx context.Context) (string, string, error) {
	return c.session.Subject(ctx)
}

func (c *Client) token(ctx context.Context) (string, error) {
	return c.session.Token(ctx)
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if r.body != nil || r.method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp, requestID)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func decodeStatusError(resp *http.Response, requestID string) error {
	statusErr := &StatusError{StatusCode: resp.StatusCode, RequestID: requestID}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope models.ErrorResponse
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		statusErr.Code = envelope.Error.Code
		statusErr.Message = envelope.Error.Message
		if envelope.Error.RequestID != "" {
			statusErr.RequestID = envelope.Error.RequestID
		}
	} else if text := strings.TrimSpace(string(data)); text != "" {
		statusErr.Message = text
	}
	return statusErr
}
