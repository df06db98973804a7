package picker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
)

// Element is one clickable element reported by a capture backend. The
// bounding box is in captured-viewport pixel space.
type Element struct {
	Selector    string      `json:"selector"`
	Tag         string      `json:"tag"`
	Text        string      `json:"text"`
	Placeholder string      `json:"placeholder,omitempty"`
	Box         BoundingBox `json:"bbox"`
}

// Capture is one page snapshot: the viewport it was taken at, the
// screenshot as base64 image data, and the visible clickable elements.
type Capture struct {
	ViewportSize Size
	Screenshot   string
	Elements     []Element
}

// Backend captures pages for element picking. LoadPage starts or replaces
// the backend's browsing session; Scroll reuses the last-loaded page.
type Backend interface {
	LoadPage(ctx context.Context, url string) (*Capture, error)
	Scroll(ctx context.Context, direction string, amount int) (*Capture, error)
	Close(ctx context.Context) error
}

// HTTPBackend talks to a remote picker service.
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client

	// viewport of the last load; scroll responses don't repeat it.
	viewport Size
}

// NewHTTPBackend creates a backend client for the picker service at baseURL.
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		// Page loads block on navigation and render settling.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type loadRequest struct {
	URL string `json:"url"`
}

type scrollRequest struct {
	Direction string `json:"direction"`
	Amount    int    `json:"amount"`
}

type captureResponse struct {
	Success          bool      `json:"success"`
	ScreenshotBase64 string    `json:"screenshot_base64"`
	Elements         []Element `json:"elements"`
	Viewport         *Size     `json:"viewport"`
	ElementCount     int       `json:"element_count"`
	Error            string    `json:"error,omitempty"`
}

// LoadPage navigates the service's browser to url and returns the snapshot.
func (b *HTTPBackend) LoadPage(ctx context.Context, url string) (*Capture, error) {
	resp, err := b.post(ctx, "/element-picker/load", loadRequest{URL: url})
	if err != nil {
		return nil, err
	}
	if resp.Viewport != nil {
		b.viewport = *resp.Viewport
	}
	return b.capture(resp), nil
}

// Scroll moves the last-loaded page and returns the refreshed snapshot.
func (b *HTTPBackend) Scroll(ctx context.Context, direction string, amount int) (*Capture, error) {
	resp, err := b.post(ctx, "/element-picker/scroll", scrollRequest{Direction: direction, Amount: amount})
	if err != nil {
		return nil, err
	}
	return b.capture(resp), nil
}

// Close shuts down the service's browser session.
func (b *HTTPBackend) Close(ctx context.Context) error {
	_, err := b.post(ctx, "/element-picker/close", struct{}{})
	return err
}

func (b *HTTPBackend) capture(resp *captureResponse) *Capture {
	viewport := b.viewport
	if resp.Viewport != nil {
		viewport = *resp.Viewport
	}
	return &Capture{
		ViewportSize: viewport,
		Screenshot:   resp.ScreenshotBase64,
		Elements:     resp.Elements,
	}
}

func (b *HTTPBackend) post(ctx context.Context, path string, body any) (*captureResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, core.ErrRequestFailed.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, core.ErrRequestFailed.WithMessage(
			fmt.Sprintf("picker service returned %s: %s", resp.Status, bytes.TrimSpace(msg)))
	}

	var out captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, core.ErrRequestFailed.WithMessage("picker service returned an unreadable response").WithCause(err)
	}
	if !out.Success && out.Error != "" {
		return nil, core.ErrBackendReported.WithMessage(out.Error)
	}
	return &out, nil
}
