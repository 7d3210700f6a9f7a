package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NetHTTPAdapter is the standard transport adapter implementation using net/http package.
type NetHTTPAdapter struct {
	client *http.Client
}

// Ensure NetHTTPAdapter implements TransportAdapter interface
var _ TransportAdapter = (*NetHTTPAdapter)(nil)

// NewNetHTTPAdapter creates a new NetHTTPAdapter instance.
// A zero timeout leaves the client without a deadline.
func NewNetHTTPAdapter(timeout time.Duration) TransportAdapter {
	return &NetHTTPAdapter{
		client: &http.Client{Timeout: timeout},
	}
}

// Send posts the envelope to the specified endpoint with the given headers.
func (h *NetHTTPAdapter) Send(endpoint string, envelope *Envelope, headers map[string]string) (*Response, error) {
	jsonData, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	return &Response{
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Data:   string(body),
	}, nil
}
