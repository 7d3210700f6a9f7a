package adapters

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testEnvelope() *Envelope {
	return &Envelope{
		Sensor:      "https://example.edu/sensors/1",
		SendTime:    "2016-11-15T11:05:01.000Z",
		DataVersion: DataVersion,
		Data:        []Record{Record(`{"id":"urn:uuid:1"}`)},
	}
}

func TestNetHTTPAdapter_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("expected Content-Type: application/json")
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("expected Authorization header")
		}
		var env Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			t.Errorf("failed to decode envelope: %v", err)
		}
		if env.Sensor != "https://example.edu/sensors/1" || len(env.Data) != 1 {
			t.Errorf("unexpected envelope: %+v", env)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	adapter := NewNetHTTPAdapter(0)
	headers := map[string]string{"Authorization": "Bearer test-key"}

	resp, err := adapter.Send(server.URL, testEnvelope(), headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK || resp.Status != 200 {
		t.Fatal("expected successful response")
	}
	if resp.Data != `{"success":true}` {
		t.Fatalf("unexpected body: %v", resp.Data)
	}
}

func TestNetHTTPAdapter_SendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewNetHTTPAdapter(0)

	resp, err := adapter.Send(server.URL, testEnvelope(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OK {
		t.Fatal("expected response to not be OK")
	}
	if resp.Status != 500 {
		t.Fatalf("expected status 500, got %d", resp.Status)
	}
}

func TestNetHTTPAdapter_SendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	adapter := NewNetHTTPAdapter(0)
	_, err := adapter.Send(url, testEnvelope(), nil)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestNetHTTPAdapter_SendMarshalError(t *testing.T) {
	adapter := NewNetHTTPAdapter(0)
	env := testEnvelope()
	env.Data = []Record{Record(`{not json`)}

	_, err := adapter.Send("http://test.com", env, nil)
	if err == nil {
		t.Fatal("expected error for invalid record")
	}
}

func TestNetHTTPAdapter_SendInvalidURL(t *testing.T) {
	adapter := NewNetHTTPAdapter(0)

	_, err := adapter.Send("ht!tp://invalid", testEnvelope(), nil)
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}
