package main

import (
	"fmt"
	"os"

	caliper "github.com/Tap30/caliper-go"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// readRecords returns the events in a file holding either one JSON event
// object or an array of them.
func readRecords(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: not valid JSON", path)
	}

	doc := gjson.ParseBytes(data)
	switch {
	case doc.IsObject():
		return [][]byte{[]byte(doc.Raw)}, nil
	case doc.IsArray():
		var records [][]byte
		var bad error
		doc.ForEach(func(i, value gjson.Result) bool {
			if !value.IsObject() {
				bad = fmt.Errorf("%s: element %d is not an object", path, i.Int())
				return false
			}
			records = append(records, []byte(value.Raw))
			return true
		})
		return records, bad
	}
	return nil, fmt.Errorf("%s: expected an event object or an array of events", path)
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <file>...",
		Short: "Send serialized events through the configured sensor",
		Long: `Read Caliper events from JSON files and deliver them in envelopes.

The sensor is configured from CALIPER_* environment variables. Events that
cannot be delivered are left in the configured storage and retried on the
next run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records [][]byte
			for _, path := range args {
				recs, err := readRecords(path)
				if err != nil {
					return err
				}
				records = append(records, recs...)
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			sensor, closeBackends, err := newSensor(cfg, logger, caliper.DefaultMetrics)
			if err != nil {
				return err
			}
			defer closeBackends()

			for _, r := range records {
				if err := sensor.SendRecord(r); err != nil {
					sensor.DisposeWithoutFlush()
					return err
				}
			}
			if err := sensor.Dispose(); err != nil {
				return fmt.Errorf("persisting undelivered events: %w", err)
			}

			if pending := sensor.Pending(); pending > 0 {
				return fmt.Errorf("%d events were not delivered and remain in %s storage", pending, cfg.Storage.Kind)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d events to %s\n", len(records), cfg.Sensor.Endpoint)
			return nil
		},
	}
}
