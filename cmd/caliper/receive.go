package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	caliper "github.com/Tap30/caliper-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

const maxEnvelopeBytes = 10 << 20

// receiver is a development endpoint that accepts sensor envelopes.
type receiver struct {
	logger     caliper.LoggerAdapter
	apiKey     string
	failStatus int
	envelopes  *prometheus.CounterVec
	events     prometheus.Counter
}

func newReceiver(logger caliper.LoggerAdapter, apiKey string, failStatus int) *receiver {
	return &receiver{
		logger:     logger,
		apiKey:     apiKey,
		failStatus: failStatus,
		envelopes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "caliper", Subsystem: "receiver", Name: "envelopes_total", Help: "Envelopes received, by response status."},
			[]string{"status"},
		),
		events: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: "caliper", Subsystem: "receiver", Name: "events_total", Help: "Events accepted in envelopes."},
		),
	}
}

func (rc *receiver) routes(reg *prometheus.Registry) http.Handler {
	reg.MustRegister(rc.envelopes, rc.events)

	mux := http.NewServeMux()
	mux.HandleFunc("/events", rc.handleEvents)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func (rc *receiver) reply(w http.ResponseWriter, status int, body map[string]any) {
	rc.envelopes.WithLabelValues(strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (rc *receiver) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		rc.reply(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	if rc.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+rc.apiKey {
		rc.logger.Warn("Rejected envelope with bad credentials from %s", r.RemoteAddr)
		rc.reply(w, http.StatusUnauthorized, map[string]any{"error": "invalid API key"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEnvelopeBytes))
	if err != nil {
		rc.reply(w, http.StatusBadRequest, map[string]any{"error": "failed to read body"})
		return
	}
	if !gjson.ValidBytes(body) {
		rc.logger.Warn("Invalid JSON envelope")
		rc.reply(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}

	envelope := gjson.ParseBytes(body)
	data := envelope.Get("data")
	if envelope.Get("sensor").String() == "" || !data.IsArray() {
		rc.reply(w, http.StatusBadRequest, map[string]any{"error": "envelope requires sensor and data"})
		return
	}
	count := len(data.Array())
	rc.logger.Info("Envelope from %s sent %s: %d events (%s)",
		envelope.Get("sensor").String(), envelope.Get("sendTime").String(), count, envelope.Get("dataVersion").String())
	data.ForEach(func(_, ev gjson.Result) bool {
		rc.logger.Debug("%s %s %s", ev.Get("action").String(), ev.Get("object.id").String(), ev.Get("id").String())
		return true
	})

	if rc.failStatus != 0 {
		rc.reply(w, rc.failStatus, map[string]any{"error": "simulated failure"})
		return
	}
	if data.Get(`#(extensions.triggerError==true)`).Exists() {
		rc.logger.Warn("Error triggered by event extensions")
		rc.reply(w, http.StatusInternalServerError, map[string]any{"error": "simulated server error"})
		return
	}

	rc.events.Add(float64(count))
	rc.reply(w, http.StatusOK, map[string]any{"success": true, "received": count})
}

func newReceiveCmd() *cobra.Command {
	var (
		addr       string
		failStatus int
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Run a development endpoint that logs received envelopes",
		Long: `Serve POST /events and log every envelope a sensor delivers.

An event carrying extensions.triggerError=true makes the endpoint answer
500, as does --fail-status with any status, so retry and persistence can be
exercised. Receiver counters are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			rc := newReceiver(logger, cfg.Sensor.APIKey, failStatus)
			srv := &http.Server{
				Addr:              addr,
				Handler:           rc.routes(prometheus.NewRegistry()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			fmt.Fprintf(cmd.OutOrStdout(), "Receiving envelopes at http://%s/events\n", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:3000", "listen address")
	cmd.Flags().IntVar(&failStatus, "fail-status", 0, "answer every envelope with this status code")
	return cmd
}
