// Package client talks to the orchestration back end: per-agent log tails
// and idea submission. Both contracts are plain text.
package client

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	logsPath        = "/api/logs/"
	orchestratePath = "/api/product-ideas/orchestrate"

	CorrelationHeader = "X-Correlation-Id"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient means a client with no
// timeout; requests are bounded only by their context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchLog returns the last lines of agentID's log as raw text.
func (c *Client) FetchLog(ctx context.Context, agentID string, lines int) (string, error) {
	u := c.baseURL + logsPath + url.PathEscape(agentID) + "?lines=" + strconv.Itoa(lines)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// Orchestrate posts the idea as the literal request body and returns the
// response text.
func (c *Client) Orchestrate(ctx context.Context, correlationID uuid.UUID, idea string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+orchestratePath, strings.NewReader(strings.TrimSpace(idea)))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	if correlationID != uuid.Nil {
		req.Header.Set(CorrelationHeader, correlationID.String())
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &StatusError{Code: res.StatusCode, Body: string(body)}
	}
	return string(body), nil
}
