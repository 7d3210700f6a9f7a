package adapters

import (
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSAdapter_Send(t *testing.T) {
	url := startTestNATS(t)

	adapter, err := NewNATSAdapter(url)
	require.NoError(t, err)
	defer adapter.Close()

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("caliper.events", ch)
	require.NoError(t, err)
	defer sub.Unsubscribe() //nolint:errcheck
	require.NoError(t, nc.Flush())

	resp, err := adapter.Send("caliper.events", testEnvelope(), map[string]string{"Authorization": "Bearer k"})
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, 202, resp.Status)

	select {
	case msg := <-ch:
		var got Envelope
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		require.Equal(t, "https://example.edu/sensors/1", got.Sensor)
		require.Len(t, got.Data, 1)
		require.Equal(t, "Bearer k", msg.Header.Get("Authorization"))
		require.Equal(t, "application/json", msg.Header.Get("Content-Type"))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published envelope")
	}
}

func TestNATSAdapter_ConnectError(t *testing.T) {
	_, err := NewNATSAdapter("nats://127.0.0.1:1", nats.Timeout(200*time.Millisecond), nats.NoReconnect())
	require.Error(t, err)
}

func TestNATSAdapter_SendMarshalError(t *testing.T) {
	url := startTestNATS(t)

	adapter, err := NewNATSAdapter(url)
	require.NoError(t, err)
	defer adapter.Close()

	env := testEnvelope()
	env.Data = []Record{Record(`{broken`)}
	_, err = adapter.Send("caliper.events", env, nil)
	require.Error(t, err)
}
