package adapters

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSAdapter publishes envelopes to NATS subjects. The endpoint passed to
// Send is used as the subject.
type NATSAdapter struct {
	conn         *nats.Conn
	flushTimeout time.Duration
}

// Ensure NATSAdapter implements TransportAdapter interface
var _ TransportAdapter = (*NATSAdapter)(nil)

// NewNATSAdapter connects to the NATS server at url with automatic
// reconnection. Extra nats.Option values are appended to the defaults.
func NewNATSAdapter(url string, opts ...nats.Option) (*NATSAdapter, error) {
	defaults := []nats.Option{
		nats.Name("caliper-sensor"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSAdapter{conn: nc, flushTimeout: 5 * time.Second}, nil
}

// Send publishes the envelope and waits for the server to acknowledge the
// flush. Subscribers are not awaited, so success reports 202 Accepted.
func (n *NATSAdapter) Send(subject string, envelope *Envelope, headers map[string]string) (*Response, error) {
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		msg.Header.Set(key, value)
	}

	if err := n.conn.PublishMsg(msg); err != nil {
		return nil, fmt.Errorf("publishing to %s: %w", subject, err)
	}
	if err := n.conn.FlushTimeout(n.flushTimeout); err != nil {
		return nil, fmt.Errorf("flushing publish to %s: %w", subject, err)
	}

	return &Response{OK: true, Status: http.StatusAccepted}, nil
}

// Close drains nothing and closes the underlying connection.
func (n *NATSAdapter) Close() error {
	n.conn.Close()
	return nil
}
