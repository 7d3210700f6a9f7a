package adapters

// Response represents the outcome of delivering an envelope.
type Response struct {
	OK     bool
	Status int
	Data   any
}

// TransportAdapter is an interface for shipping envelopes to an endpoint.
// Implement this interface to use custom HTTP clients or message brokers.
type TransportAdapter interface {
	// Send delivers the envelope to the specified endpoint.
	//
	// Parameters:
	//   - endpoint: The endpoint URL, or subject for broker transports
	//   - envelope: The batch of records to deliver
	//   - headers: Optional custom headers to merge with defaults
	//
	// Returns the delivery response or error.
	Send(endpoint string, envelope *Envelope, headers map[string]string) (*Response, error)
}
