// Package backend talks to the query service that turns a natural-language
// prompt into a computed result.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/asklens-labs/asklens/internal/state"
	"github.com/google/uuid"
)

// Point is a device location sent with a query when the user has opted in.
// Coordinates are rounded to 3 decimals before serialization.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Round returns the point with both coordinates at 3-decimal precision.
func (p Point) Round() Point {
	return Point{
		Latitude:  math.Round(p.Latitude*1000) / 1000,
		Longitude: math.Round(p.Longitude*1000) / 1000,
	}
}

// Visualization describes the current chart state sent as context with a
// follow-up query.
type Visualization struct {
	ChartType              string          `json:"chartType"`
	Dimensions             []string        `json:"dimensions"`
	Measures               []state.Measure `json:"measures"`
	PreAggregationFilters  string          `json:"preAggregationFilters"`
	PostAggregationFilters string          `json:"postAggregationFilters"`
	TopN                   *state.TopN     `json:"topN,omitempty"`
}

// QueryContext carries conversation state alongside a prompt.
type QueryContext struct {
	CurrentVisualization Visualization `json:"currentVisualization"`
	ConversationHistory  []state.Turn  `json:"conversationHistory"`
	LocationEnabled      bool          `json:"locationEnabled"`
}

type request struct {
	Prompt   string       `json:"prompt"`
	Context  QueryContext `json:"context"`
	Location *Point       `json:"location,omitempty"`
}

// Response is one decoded query response plus the sequence number of the
// request that produced it.
type Response struct {
	Result state.Result
	Seq    uint64
}

// Client submits prompts to the backend. Each dispatch gets a
// monotonically increasing sequence number; callers drop responses whose
// sequence is no longer the latest, so a stale in-flight response cannot
// overwrite a newer one.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	seq     atomic.Uint64
}

// NewClient creates a backend client. A zero timeout leaves requests
// unbounded, matching the original client's behavior.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetHTTPClient overrides the HTTP client. Used for testing.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// Latest reports whether seq belongs to the most recently dispatched
// request.
func (c *Client) Latest(seq uint64) bool {
	return seq == c.seq.Load()
}

// Ask submits a prompt with its conversation context. The returned
// Response carries the request's sequence number; check Latest before
// applying it to the result store.
func (c *Client) Ask(ctx context.Context, prompt string, qctx QueryContext, loc *Point) (*Response, error) {
	seq := c.seq.Add(1)
	requestID := uuid.NewString()

	payload := request{
		Prompt:  prompt,
		Context: qctx,
	}
	if loc != nil {
		rounded := loc.Round()
		payload.Location = &rounded
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var result state.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	c.logger.Debug("query completed",
		"request_id", requestID,
		"seq", seq,
		"elapsed", time.Since(started).Round(time.Millisecond),
		"rows", len(result.Dataset))

	return &Response{Result: result, Seq: seq}, nil
}
