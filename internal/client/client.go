// ABOUTME: Thin JSON-RPC 2.0 HTTP client for tests and scriptable callers
// ABOUTME: Supports requests, notifications, and batches over plain POST

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/harper/jsonrpc-playground/internal/jsonrpc"
)

type Client struct {
	url        string
	httpClient *http.Client
}

func New(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Call sends one request with a generated id and returns the decoded
// response envelope. Protocol-level errors are returned inside the envelope,
// not as a Go error.
func (c *Client) Call(ctx context.Context, method string, params any) (*jsonrpc.Response, error) {
	id := json.RawMessage(strconv.Quote("req_" + uuid.New().String()[:8]))

	req, err := buildRequest(method, params, &id)
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty response body for request %s", method)
	}

	var resp jsonrpc.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Notify sends a notification and verifies that the server wrote no
// response body.
func (c *Client) Notify(ctx context.Context, method string, params any) error {
	req, err := buildRequest(method, params, nil)
	if err != nil {
		return err
	}

	body, err := c.post(ctx, req)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) != 0 {
		return fmt.Errorf("server wrote a body for notification %s: %s", method, body)
	}
	return nil
}

// BatchCall is one element of a batch. Notifications get no id and produce
// no response entry.
type BatchCall struct {
	Method       string
	Params       any
	Notification bool
}

// Batch sends all calls in one POST and returns the response array, which
// omits entries for notifications. An all-notification batch returns nil.
func (c *Client) Batch(ctx context.Context, calls []BatchCall) ([]jsonrpc.Response, error) {
	if len(calls) == 0 {
		return nil, fmt.Errorf("batch must contain at least one call")
	}

	requests := make([]jsonrpc.Request, 0, len(calls))
	expected := 0
	for _, call := range calls {
		var id *json.RawMessage
		if !call.Notification {
			raw := json.RawMessage(strconv.Quote("req_" + uuid.New().String()[:8]))
			id = &raw
			expected++
		}
		req, err := buildRequest(call.Method, call.Params, id)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	payload, err := json.Marshal(requests)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	body, err := c.postRaw(ctx, payload)
	if err != nil {
		return nil, err
	}

	if expected == 0 {
		if len(bytes.TrimSpace(body)) != 0 {
			return nil, fmt.Errorf("server wrote a body for an all-notification batch: %s", body)
		}
		return nil, nil
	}

	var responses []jsonrpc.Response
	if err := json.Unmarshal(body, &responses); err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}
	return responses, nil
}

func buildRequest(method string, params any, id *json.RawMessage) (jsonrpc.Request, error) {
	req := jsonrpc.Request{JSONRPC: jsonrpc.Version, Method: method, ID: id}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return jsonrpc.Request{}, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = raw
	}
	return req, nil
}

func (c *Client) post(ctx context.Context, req jsonrpc.Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.postRaw(ctx, payload)
}

func (c *Client) postRaw(ctx context.Context, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
