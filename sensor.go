package caliper

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tap30/caliper-go/adapters"
)

// Sensor serializes events and ships them to an endpoint in envelopes.
type Sensor struct {
	config           SensorConfig
	serializer       *Serializer
	dispatcher       *Dispatcher
	transportAdapter TransportAdapter
	storageAdapter   StorageAdapter
	loggerAdapter    LoggerAdapter
	metrics          *Metrics
	initialized      bool
	mu               sync.RWMutex
}

// NewSensor validates config, applies defaults and returns a sensor.
// Call Init before sending.
func NewSensor(config SensorConfig) (*Sensor, error) {
	if config.ID == "" {
		return nil, errors.New("sensor ID must be provided in config")
	}
	if config.Endpoint == "" {
		return nil, errors.New("endpoint must be provided in config")
	}
	if config.TransportAdapter == nil || config.StorageAdapter == nil {
		return nil, errors.New("both TransportAdapter and StorageAdapter must be provided in config")
	}

	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 10
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	} else if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = time.Second
	}

	sensor := &Sensor{
		config:           config,
		serializer:       config.Serializer,
		transportAdapter: config.TransportAdapter,
		storageAdapter:   config.StorageAdapter,
		loggerAdapter:    config.LoggerAdapter,
		metrics:          config.Metrics,
	}
	if sensor.serializer == nil {
		sensor.serializer = DefaultSerializer()
	}
	if sensor.loggerAdapter == nil {
		sensor.loggerAdapter = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}
	if sensor.metrics == nil {
		sensor.metrics = DefaultMetrics
	}
	return sensor, nil
}

// ID returns the sensor IRI.
func (s *Sensor) ID() string {
	return s.config.ID
}

// Serializer returns the serializer used by Send.
func (s *Sensor) Serializer() *Serializer {
	return s.serializer
}

// Init starts the dispatcher and restores persisted events. Calling Init
// on an initialized sensor is a no-op.
func (s *Sensor) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	headers := map[string]string{}
	apiKeyHeader := "Authorization"
	if s.config.APIKeyHeader != nil {
		apiKeyHeader = *s.config.APIKeyHeader
	}
	if s.config.APIKey != "" {
		value := s.config.APIKey
		if apiKeyHeader == "Authorization" {
			value = "Bearer " + value
		}
		headers[apiKeyHeader] = value
	}

	dispatcherConfig := DispatcherConfig{
		SensorID:      s.config.ID,
		APIKey:        s.config.APIKey,
		APIKeyHeader:  apiKeyHeader,
		Endpoint:      s.config.Endpoint,
		FlushInterval: s.config.FlushInterval,
		MaxBatchSize:  s.config.MaxBatchSize,
		MaxRetries:    s.config.MaxRetries,
		RetryBackoff:  s.config.RetryBackoff,
	}

	dispatcher := NewDispatcher(dispatcherConfig, s.transportAdapter, s.storageAdapter, headers)
	dispatcher.SetLoggerAdapter(s.loggerAdapter)
	dispatcher.SetMetrics(s.metrics)
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("restoring persisted events: %w", err)
	}

	s.dispatcher = dispatcher
	s.initialized = true
	s.loggerAdapter.Info("Sensor %s initialized", s.config.ID)
	return nil
}

// Send serializes every event and queues them for delivery. If any event
// fails to serialize, nothing is queued.
func (s *Sensor) Send(events ...*Event) error {
	records := make([]Record, 0, len(events))
	for i, ev := range events {
		if ev == nil {
			return fmt.Errorf("event %d is nil", i)
		}
		data, err := s.serializer.Marshal(ev)
		if err != nil {
			return fmt.Errorf("serializing event %s: %w", ev.ID(), err)
		}
		records = append(records, Record(data))
	}

	// Dispose takes the write lock, so records queued under the read lock
	// are always seen by its final persist.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	for _, r := range records {
		s.dispatcher.Enqueue(r)
	}
	s.loggerAdapter.Debug("Queued %d events", len(records))
	return nil
}

// SendRecord queues an already serialized event. The record must be a JSON object.
func (s *Sensor) SendRecord(raw []byte) error {
	if !json.Valid(raw) {
		return errors.New("record is not valid JSON")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("record must be a JSON object: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	s.dispatcher.Enqueue(append(Record(nil), raw...))
	return nil
}

func (s *Sensor) activeDispatcher() (*Dispatcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.dispatcher, nil
}

// Pending returns how many events are queued but undelivered. After Dispose
// it reports what was left behind in storage.
func (s *Sensor) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dispatcher == nil {
		return 0
	}
	return s.dispatcher.Pending()
}

// Flush sends queued events now instead of waiting for the timer.
func (s *Sensor) Flush() {
	dispatcher, err := s.activeDispatcher()
	if err != nil {
		s.loggerAdapter.Warn("Flush called before initialization")
		return
	}

	s.loggerAdapter.Debug("Flushing events")
	dispatcher.Flush()
}

// Dispose flushes pending events, persists anything undelivered and stops
// the sensor.
func (s *Sensor) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	s.loggerAdapter.Info("Disposing sensor")
	err := s.dispatcher.Stop()
	s.initialized = false
	return err
}

// DisposeWithoutFlush stops the sensor and persists events to storage without flushing to the endpoint
func (s *Sensor) DisposeWithoutFlush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	s.loggerAdapter.Info("Disposing sensor without flush")
	err := s.dispatcher.StopWithoutFlush()
	s.initialized = false
	return err
}
