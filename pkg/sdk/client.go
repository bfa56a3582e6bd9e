// Package sdk is a minimal Go client for the docqa HTTP API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Client calls the docqa API on behalf of one tenant.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given API base URL and tenant credentials.
func New(baseURL, email, password string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("sdk: invalid base url: %w", err)
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		password: password,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docqa api: %d %s: %s", e.Status, e.Code, e.Message)
}

// UploadResult reports a completed ingestion.
type UploadResult struct {
	Filename  string `json:"filename"`
	Namespace string `json:"namespace"`
	Chunks    int    `json:"chunks"`
}

// Answer is a generated answer with the measured pipeline latency.
type Answer struct {
	Answer         string  `json:"answer"`
	LatencySeconds float64 `json:"latency_seconds"`
}

// LogEntry is one audit trail entry.
type LogEntry struct {
	ID             int64     `json:"id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Timestamp      time.Time `json:"timestamp"`
	LatencySeconds float64   `json:"latency_seconds"`
}

// Summary describes the tenant's ingested documents.
type Summary struct {
	Namespace string   `json:"namespace"`
	Chunks    int      `json:"chunks"`
	Files     []string `json:"files"`
}

// Health is the aggregated service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Upload ingests a document into the tenant's namespace.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("sdk: build multipart: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return UploadResult{}, fmt.Errorf("sdk: build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("sdk: build multipart: %w", err)
	}

	var out UploadResult
	err = c.do(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &out)
	return out, err
}

// Ask answers a question against the tenant's ingested documents.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return Answer{}, fmt.Errorf("sdk: encode request: %w", err)
	}

	var out Answer
	err = c.do(ctx, http.MethodPost, "/ask", bytes.NewReader(body), "application/json", &out)
	return out, err
}

// Logs returns the tenant's question history.
func (c *Client) Logs(ctx context.Context) ([]LogEntry, error) {
	var out struct {
		Logs []LogEntry `json:"logs"`
	}
	if err := c.do(ctx, http.MethodGet, "/logs", nil, "", &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

// Files summarizes the tenant's ingested documents.
func (c *Client) Files(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.do(ctx, http.MethodGet, "/files", nil, "", &out)
	return out, err
}

// Health reports service health. Does not require credentials.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, "", &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("sdk: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.SetBasicAuth(c.email, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// /health answers 503 with a valid body when degraded
	if resp.StatusCode >= 400 && !(path == "/health" && resp.StatusCode == http.StatusServiceUnavailable) {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sdk: decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
