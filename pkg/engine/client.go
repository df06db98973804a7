package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

// Client communicates with the workflow execution engine over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout for synchronous calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the engine at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		// Workflows drive a real browser; sync runs can take minutes.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunRequest is the body of a synchronous natural-language run.
type RunRequest struct {
	Instructions string            `json:"instructions"`
	UserData     map[string]string `json:"user_data,omitempty"`
}

// StepsRequest is the body of a pre-composed steps run.
type StepsRequest struct {
	Steps    []flow.StepPayload `json:"steps"`
	UserData map[string]string  `json:"user_data,omitempty"`
}

// RunResult is the engine's response to a synchronous run: the report plus
// the parsed steps when the engine did the parsing.
type RunResult struct {
	core.Report
	WorkflowSteps []flow.StepPayload `json:"workflow_steps,omitempty"`
}

// ParseResult is the engine's response to a parse preview.
type ParseResult struct {
	Success bool               `json:"success"`
	Steps   []flow.StepPayload `json:"steps"`
	Count   int                `json:"count"`
	Error   string             `json:"error,omitempty"`
}

// Run executes a workflow from natural-language instructions and blocks
// until the complete report is available.
func (c *Client) Run(ctx context.Context, instructions string, userData map[string]string) (*RunResult, error) {
	var result RunResult
	req := RunRequest{Instructions: instructions, UserData: userData}
	if err := c.postJSON(ctx, "/workflow/run", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecuteSteps executes pre-composed steps and blocks until the complete
// report is available.
func (c *Client) ExecuteSteps(ctx context.Context, steps []flow.StepPayload, userData map[string]string) (*RunResult, error) {
	var result RunResult
	req := StepsRequest{Steps: steps, UserData: userData}
	if err := c.postJSON(ctx, "/workflow/execute-steps", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Parse previews how the engine would turn instructions into steps, without
// executing them.
func (c *Client) Parse(ctx context.Context, instructions string) (*ParseResult, error) {
	var result ParseResult
	req := RunRequest{Instructions: instructions}
	if err := c.postJSON(ctx, "/workflow/parse", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.ErrRequestFailed.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return core.ErrRequestFailed.WithMessage(
			fmt.Sprintf("engine returned %s: %s", resp.Status, bytes.TrimSpace(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.ErrRequestFailed.WithMessage("engine returned an unreadable response").WithCause(err)
	}
	return nil
}
