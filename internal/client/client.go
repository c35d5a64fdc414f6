// Package client talks to the relay server: it posts a conversation to
// /api/chat and decodes the Server-Sent Events reply.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"relaychat/backend/internal/model"
)

// ErrInterrupted means the stream ended before the server sent [DONE],
// usually because the connection dropped.
var ErrInterrupted = errors.New("stream interrupted")

// APIError is a non-200 answer from the relay.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}

// StreamError is an error chunk received after the stream started.
type StreamError struct {
	Message string
	Code    string
}

func (e *StreamError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the relay at baseURL. A nil httpClient uses a
// client without timeout, since streams may run for minutes.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Stream posts req and calls onChunk for every chunk until the server sends
// [DONE]. Returning an error from onChunk aborts the stream with that error.
func (c *Client) Stream(ctx context.Context, req *model.ChatRequest, onChunk func(model.StreamChunk) error) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	err = readEvents(resp.Body, func(data string) (bool, error) {
		if data == model.StreamDone {
			return true, nil
		}
		var chunk model.StreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return false, fmt.Errorf("could not decode chunk: %w", err)
		}
		if chunk.IsError() {
			se := &StreamError{Message: "stream failed"}
			if chunk.Error != nil {
				se.Message = chunk.Error.Message
				se.Code = chunk.Error.Code
			}
			return false, se
		}
		return false, onChunk(chunk)
	})
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// ModelInfo fetches the model the relay is bound to.
func (c *Client) ModelInfo(ctx context.Context) (*model.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/model", nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	var info model.ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("could not decode model info: %w", err)
	}
	return &info, nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var body model.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
	}
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Message}
}

// readEvents splits an event stream into events and hands each data payload
// to handle. Multi-line data fields are joined with newlines, comment lines
// are skipped, and a blank line dispatches the event. handle returns true to
// stop reading after a terminal event.
func readEvents(r io.Reader, handle func(data string) (bool, error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var data []string
	dispatch := func() (bool, error) {
		if len(data) == 0 {
			return false, nil
		}
		payload := strings.Join(data, "\n")
		data = data[:0]
		return handle(payload)
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
			done, err := dispatch()
			if err != nil || done {
				return err
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	}
	// A trailing event without its blank line still counts.
	done, err := dispatch()
	if err != nil {
		return err
	}
	if !done {
		return ErrInterrupted
	}
	return nil
}
