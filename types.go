package caliper

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tap30/caliper-go/adapters"
)

// Re-export adapter types for convenience
type (
	Record           = adapters.Record
	Envelope         = adapters.Envelope
	TransportAdapter = adapters.TransportAdapter
	Response         = adapters.Response
	StorageAdapter   = adapters.StorageAdapter
	LoggerAdapter    = adapters.LoggerAdapter
	LogLevel         = adapters.LogLevel
)

var (
	// ErrUnknownFilter is returned when an entity names a filter policy that
	// is not registered and the provider fails on unknown ids.
	ErrUnknownFilter = errors.New("caliper: unknown filter id")
	// ErrUnknownAction is returned when an Action has no Caliper term.
	ErrUnknownAction = errors.New("caliper: unknown action")
	// ErrMissingField is returned by EventBuilder.Build for absent required fields.
	ErrMissingField = errors.New("caliper: missing required field")
	// ErrNotInitialized is returned when sending through a sensor before Init.
	ErrNotInitialized = errors.New("caliper: sensor not initialized, call Init() before sending events")
)

// HTTPError reports a delivery that ended with a non-retryable or exhausted
// status code.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("envelope delivery failed with status %d", e.Status)
}

// SensorConfig configures a Sensor.
type SensorConfig struct {
	// ID is the sensor IRI written into every envelope.
	ID            string
	APIKey        string
	Endpoint      string
	APIKeyHeader  *string
	FlushInterval time.Duration
	MaxBatchSize  int
	MaxRetries    int
	// RetryBackoff is the delay before the first retry; it doubles on every
	// attempt. Defaults to one second.
	RetryBackoff time.Duration

	TransportAdapter TransportAdapter
	StorageAdapter   StorageAdapter
	LoggerAdapter    LoggerAdapter
	// Serializer defaults to one with SerializeAll registered.
	Serializer *Serializer
	// Metrics defaults to DefaultMetrics.
	Metrics *Metrics
}

type DispatcherConfig struct {
	SensorID      string
	APIKey        string
	APIKeyHeader  string
	Endpoint      string
	FlushInterval time.Duration
	MaxBatchSize  int
	MaxRetries    int
	RetryBackoff  time.Duration
}
