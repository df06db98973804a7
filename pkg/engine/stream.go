package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

// StreamRequest is the body of a streaming run. Either Instructions or
// Steps is set.
type StreamRequest struct {
	Instructions string             `json:"instructions,omitempty"`
	Steps        []flow.StepPayload `json:"steps,omitempty"`
	UserData     map[string]string  `json:"user_data,omitempty"`
}

// Stream opens a server-sent-event connection for one workflow run and
// decodes lifecycle events onto the returned channel. The channel is closed
// when the engine terminates the stream (after workflow_complete or error),
// when the connection drops, or when ctx is cancelled — cancelling ctx is
// the single teardown path for an open stream.
//
// Transport delivery order is trusted: events are forwarded as received,
// without re-sorting or deduplication.
func (c *Client) Stream(ctx context.Context, req StreamRequest) (<-chan Event, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/workflow/stream", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	// A stream outlives any sync timeout; ctx governs its lifetime.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, core.ErrRequestFailed.WithCause(err)
	}
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, core.ErrRequestFailed.WithMessage(
			fmt.Sprintf("engine returned %s: %s", resp.Status, bytes.TrimSpace(msg)))
	}

	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024) // screenshots ride in step_complete payloads

		var eventName string
		var dataBuf bytes.Buffer
		flush := func() bool {
			if eventName == "" && dataBuf.Len() == 0 {
				return true
			}
			ev, err := DecodeEvent(eventName, dataBuf.Bytes())
			eventName = ""
			dataBuf.Reset()
			if err != nil {
				// Skip malformed frames rather than killing the stream.
				return true
			}
			select {
			case ch <- ev:
				return !ev.Terminal()
			case <-ctx.Done():
				return false
			}
		}

		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if !flush() {
					return
				}
			case strings.HasPrefix(line, "event:"):
				eventName = strings.TrimSpace(line[len("event:"):])
			case strings.HasPrefix(line, "data:"):
				if dataBuf.Len() > 0 {
					dataBuf.WriteByte('\n')
				}
				dataBuf.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			case strings.HasPrefix(line, ":"):
				// Comment, ignore.
			}
		}
		flush()
	}()

	return ch, nil
}
