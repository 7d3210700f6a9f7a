package main

import (
	"errors"
	"fmt"

	caliper "github.com/Tap30/caliper-go"
	"github.com/Tap30/caliper-go/adapters"
	"github.com/Tap30/caliper-go/internal/config"
	"github.com/redis/go-redis/v9"
)

// newSensor wires the configured transport and storage into an initialized
// sensor. The returned close function releases the backend connections and
// must be called after the sensor is disposed.
func newSensor(cfg *config.Config, logger adapters.LoggerAdapter, metrics *caliper.Metrics) (*caliper.Sensor, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	transport, err := newTransport(cfg.Transport)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := transport.(*adapters.NATSAdapter); ok {
		closers = append(closers, c.Close)
	}

	var storage caliper.StorageAdapter
	switch cfg.Storage.Kind {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		closers = append(closers, client.Close)
		storage = adapters.NewRedisStorageAdapter(client, adapters.RedisStorageOptions{
			Key:        cfg.Storage.RedisKey,
			MaxRecords: cfg.Storage.MaxRecords,
		})
	case config.StorageNone:
		storage = adapters.NewNoOpStorageAdapter()
	default:
		storage = adapters.NewFileStorageAdapter(cfg.Storage.Path)
	}

	sensorConfig := caliper.SensorConfig{
		ID:               cfg.Sensor.ID,
		APIKey:           cfg.Sensor.APIKey,
		Endpoint:         cfg.Sensor.Endpoint,
		FlushInterval:    cfg.Sensor.FlushInterval,
		MaxBatchSize:     cfg.Sensor.MaxBatchSize,
		MaxRetries:       cfg.Sensor.MaxRetries,
		RetryBackoff:     cfg.Sensor.RetryBackoff,
		TransportAdapter: transport,
		StorageAdapter:   storage,
		LoggerAdapter:    logger,
		Metrics:          metrics,
	}
	if cfg.Sensor.APIKeyHeader != "" {
		header := cfg.Sensor.APIKeyHeader
		sensorConfig.APIKeyHeader = &header
	}

	sensor, err := caliper.NewSensor(sensorConfig)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if err := sensor.Init(); err != nil {
		closeAll()
		return nil, nil, err
	}
	return sensor, closeAll, nil
}

func newTransport(cfg config.TransportConfig) (caliper.TransportAdapter, error) {
	switch cfg.Kind {
	case config.TransportNATS:
		adapter, err := adapters.NewNATSAdapter(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("creating NATS transport: %w", err)
		}
		return adapter, nil
	default:
		return adapters.NewNetHTTPAdapter(cfg.HTTPTimeout), nil
	}
}
