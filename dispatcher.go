package caliper

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Tap30/caliper-go/adapters"
)

// Dispatcher batches queued records into envelopes and delivers them.
type Dispatcher struct {
	config           DispatcherConfig
	queue            *Queue
	transportAdapter TransportAdapter
	storageAdapter   StorageAdapter
	loggerAdapter    LoggerAdapter
	metrics          *Metrics
	headers          map[string]string
	now              func() time.Time
	ticker           *time.Ticker
	stopChan         chan struct{}
	stopOnce         sync.Once
	flushMu          sync.Mutex
	wg               sync.WaitGroup
	timerStarted     bool
	stopped          bool
	timerMu          sync.Mutex
}

// maxRetryBackoff caps the exponential delay between delivery attempts.
const maxRetryBackoff = time.Minute

// NewDispatcher creates a dispatcher. A non-positive MaxBatchSize or
// FlushInterval is replaced with the sensor defaults of 10 and 5s.
func NewDispatcher(config DispatcherConfig, transportAdapter TransportAdapter, storageAdapter StorageAdapter, headers map[string]string) *Dispatcher {
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 10
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	return &Dispatcher{
		config:           config,
		queue:            NewQueue(),
		transportAdapter: transportAdapter,
		storageAdapter:   storageAdapter,
		loggerAdapter:    adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn),
		metrics:          DefaultMetrics,
		headers:          headers,
		now:              time.Now,
		stopChan:         make(chan struct{}),
	}
}

// SetLoggerAdapter sets a custom logger adapter
func (d *Dispatcher) SetLoggerAdapter(logger LoggerAdapter) {
	d.loggerAdapter = logger
}

// SetMetrics sets the collectors updated by the dispatcher.
func (d *Dispatcher) SetMetrics(m *Metrics) {
	d.metrics = m
}

// Start restores records persisted by a previous run.
func (d *Dispatcher) Start() error {
	records, err := d.storageAdapter.Load()
	if err != nil {
		return err
	}
	d.queue.LoadFromSlice(records)
	if len(records) > 0 {
		d.loggerAdapter.Info("Restored %d persisted events", len(records))
	}

	// Don't start timer yet - wait for first new record
	return nil
}

func (d *Dispatcher) Enqueue(record Record) {
	d.queue.Enqueue(record)
	d.metrics.Enqueued.WithLabelValues(d.config.SensorID).Inc()

	d.startTimerIfNeeded()

	if d.queue.Len() >= d.config.MaxBatchSize {
		go d.Flush()
	}
}

func (d *Dispatcher) startTimerIfNeeded() {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	if d.timerStarted || d.stopped {
		return
	}
	d.ticker = time.NewTicker(d.config.FlushInterval)
	d.timerStarted = true
	d.wg.Go(func() {
		for {
			select {
			case <-d.ticker.C:
				d.Flush()
			case <-d.stopChan:
				return
			}
		}
	})
}

// Flush delivers every queued record in batches of MaxBatchSize. When a
// batch cannot be delivered, it and all later records go back to the front
// of the queue and are persisted.
func (d *Dispatcher) Flush() {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	if d.queue.IsEmpty() {
		return
	}

	d.loggerAdapter.Debug("Starting flush operation")
	records := d.queue.Drain()

	for i := 0; i < len(records); i += d.config.MaxBatchSize {
		end := min(i+d.config.MaxBatchSize, len(records))
		batch := records[i:end]

		d.loggerAdapter.Debug("Sending batch of %d events", len(batch))
		if err := d.sendWithRetry(batch); err != nil {
			d.loggerAdapter.Error("Failed to send batch: %v", err)
			d.queue.PushFront(records[i:])
			d.persist()
			return
		}
	}
}

// Pending returns the number of queued records not yet delivered.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

func (d *Dispatcher) envelope(batch []Record) *Envelope {
	return &Envelope{
		Sensor:      d.config.SensorID,
		SendTime:    FormatTime(d.now()),
		DataVersion: adapters.DataVersion,
		Data:        batch,
	}
}

func (d *Dispatcher) sendWithRetry(batch []Record) error {
	sensor := d.config.SensorID

	for attempt := 0; ; attempt++ {
		d.loggerAdapter.Debug("Sending envelope, attempt %d/%d", attempt+1, d.config.MaxRetries+1)

		resp, err := d.transportAdapter.Send(d.config.Endpoint, d.envelope(batch), d.headers)

		var reason string
		switch {
		case err != nil:
			reason = "network"
			d.loggerAdapter.Warn("Network error on attempt %d: %v", attempt+1, err)
		case resp.Status >= 200 && resp.Status < 300:
			d.loggerAdapter.Debug("Delivered %d events, clearing storage", len(batch))
			d.metrics.Delivered.WithLabelValues(sensor).Add(float64(len(batch)))
			d.clearStorage()
			return nil
		case resp.Status >= 400 && resp.Status < 500:
			// Client errors are not retried; the batch is dropped.
			d.loggerAdapter.Warn("Client error %d, dropping %d events", resp.Status, len(batch))
			d.metrics.Dropped.WithLabelValues(sensor).Add(float64(len(batch)))
			d.clearStorage()
			return nil
		case resp.Status >= 500:
			reason = "server"
			err = &HTTPError{Status: resp.Status}
			d.loggerAdapter.Warn("Server error %d on attempt %d", resp.Status, attempt+1)
		default:
			d.metrics.Failures.WithLabelValues(sensor, "unexpected").Inc()
			d.loggerAdapter.Warn("Unexpected status code: %d", resp.Status)
			return &HTTPError{Status: resp.Status}
		}

		d.metrics.Failures.WithLabelValues(sensor, reason).Inc()
		if attempt >= d.config.MaxRetries {
			d.loggerAdapter.Error("Giving up after %d attempts for %d events", attempt+1, len(batch))
			return err
		}

		wait := d.backoff(attempt)
		d.loggerAdapter.Debug("Retrying in %v", wait)
		time.Sleep(wait)
	}
}

// backoff doubles the base delay per attempt, capped at maxRetryBackoff, and
// adds up to one base delay of jitter.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	base := d.config.RetryBackoff
	if base <= 0 {
		return 0
	}
	delay := maxRetryBackoff
	if base < maxRetryBackoff && attempt < 32 {
		if shifted := base << attempt; shifted > 0 && shifted < maxRetryBackoff {
			delay = shifted
		}
	}
	return delay + time.Duration(rand.Int63n(int64(base)))
}

func (d *Dispatcher) clearStorage() {
	if err := d.storageAdapter.Clear(); err != nil {
		d.loggerAdapter.Warn("Failed to clear storage: %v", err)
	}
}

func (d *Dispatcher) persist() error {
	records := d.queue.ToSlice()
	if len(records) == 0 {
		return nil
	}
	if err := d.storageAdapter.Save(records); err != nil {
		d.loggerAdapter.Error("Failed to persist %d events: %v", len(records), err)
		return err
	}
	return nil
}

func (d *Dispatcher) stopTimer() {
	d.stopOnce.Do(func() {
		d.timerMu.Lock()
		d.stopped = true
		if d.ticker != nil {
			d.ticker.Stop()
		}
		d.timerMu.Unlock()
		close(d.stopChan)
	})
	d.wg.Wait()
}

// Stop halts the flush timer, flushes, and persists anything left.
func (d *Dispatcher) Stop() error {
	d.stopTimer()
	d.Flush()
	return d.persist()
}

// StopWithoutFlush halts the flush timer and persists queued records
// without contacting the endpoint.
func (d *Dispatcher) StopWithoutFlush() error {
	d.stopTimer()
	return d.persist()
}
