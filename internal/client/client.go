package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultEndpoint = "http://localhost:8080/api/graphql"

type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type GraphQLError struct {
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Response is the decoded envelope. Raw holds the body exactly as the
// server sent it.
type Response struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     []GraphQLError  `json:"errors,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	StatusCode int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// Err returns the first reported error, or nil.
func (r *Response) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &Error{Message: r.Errors[0].Message}
}

// Error carries the first errors[].message of a response.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New returns a client for endpoint. A timeout of zero or less means
// requests are bounded only by their context.
func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout < 0 {
		timeout = 0
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts one operation and decodes the envelope. It does not retry.
func (c *Client) Send(ctx context.Context, query string, variables map[string]interface{}) (*Response, error) {
	if variables == nil {
		variables = map[string]interface{}{}
	}
	body, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	envelope.StatusCode = resp.StatusCode
	envelope.Raw = raw
	return &envelope, nil
}
