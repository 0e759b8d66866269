package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	// ErrNetwork means no response reached the client (DNS failure,
	// connection refused, timeout). Status is always 0.
	ErrNetwork ErrorKind = iota
	// ErrServer means the server answered with a non-2xx status.
	ErrServer
	// ErrParse means a response arrived but its body was not valid JSON.
	ErrParse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNetwork:
		return "network"
	case ErrServer:
		return "server"
	case ErrParse:
		return "parse"
	}
	return "unknown"
}

// APIError carries a failed request's classification, user-facing message
// and HTTP status (0 for transport failures).
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return e.Message
}

// Response is the uniform envelope every request resolves to. Exactly one
// of Data and Err is set.
type Response struct {
	Data   json.RawMessage
	Err    *APIError
	Status int
}

// Decode unmarshals the response body into v. A shape mismatch surfaces as
// a parse error so callers see the same taxonomy for every failure.
func (r Response) Decode(v any) *APIError {
	if r.Err != nil {
		return r.Err
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &APIError{Kind: ErrParse, Message: "Failed to parse response", Status: r.Status}
	}
	return nil
}

// Client is the single point of outbound HTTP communication. All stores
// share one instance; the bearer token is the only mutable state.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client bound to baseURL. The base URL is fixed for the
// client's lifetime.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SetToken sets the bearer token attached to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Token returns the currently configured bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get performs a GET request against the given relative path.
func (c *Client) Get(ctx context.Context, path string) Response {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body any) Response {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) Response {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, body any) Response {
	return c.do(ctx, http.MethodDelete, path, body)
}

func networkError() Response {
	return Response{Err: &APIError{Kind: ErrNetwork, Message: "Network error occurred", Status: 0}, Status: 0}
}

func (c *Client) do(ctx context.Context, method, path string, body any) Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			logrus.Warnf("[Gateway] %s %s: failed to encode request body: %v", method, path, err)
			return networkError()
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		logrus.Warnf("[Gateway] %s %s: failed to build request: %v", method, path, err)
		return networkError()
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.Warnf("[Gateway] %s %s: transport failure: %v", method, path, err)
		return networkError()
	}
	defer resp.Body.Close()

	return handleResponse(method, path, resp)
}

func handleResponse(method, path string, resp *http.Response) Response {
	status := resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil || !json.Valid(raw) {
		logrus.Warnf("[Gateway] %s %s: unparseable response body (status %d)", method, path, status)
		return Response{Err: &APIError{Kind: ErrParse, Message: "Failed to parse response", Status: status}, Status: status}
	}

	if status < 200 || status > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &payload)
		message := payload.Message
		if message == "" {
			message = "An error occurred"
		}
		logrus.Debugf("[Gateway] %s %s -> %d: %s", method, path, status, message)
		return Response{Err: &APIError{Kind: ErrServer, Message: message, Status: status}, Status: status}
	}

	logrus.Debugf("[Gateway] %s %s -> %d", method, path, status)
	return Response{Data: raw, Status: status}
}
