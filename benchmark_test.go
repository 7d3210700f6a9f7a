package caliper

import (
	"testing"
	"time"

	"github.com/Tap30/caliper-go/adapters"
)

func benchEvent(b *testing.B) *Event {
	b.Helper()
	created := time.Date(2016, 11, 12, 7, 15, 0, 0, time.UTC)
	ev, err := NewEventBuilder().
		ID("urn:uuid:3a648e68-f00d-4c08-aa59-8738e1884f2c").
		Actor(&Person{ID: "https://example.edu/users/554433"}).
		Action(ActionModified).
		Object(&Document{ID: "https://example.edu/terms/201601/courses/7/sections/1/resources/123?version=3", Name: "Course Syllabus", DateCreated: created, Version: "3"}).
		EventTime(time.Date(2016, 11, 15, 10, 15, 0, 0, time.UTC)).
		Extensions(map[string]any{
			"archive": []any{
				&Document{ID: "https://example.edu/terms/201601/courses/7/sections/1/resources/123?version=2", DateCreated: created, Version: "2", Filter: SerializeAllID},
				&Document{ID: "https://example.edu/terms/201601/courses/7/sections/1/resources/123?version=1", DateCreated: created, Version: "1", Filter: SerializeAllID},
			},
		}).
		Build()
	if err != nil {
		b.Fatal(err)
	}
	return ev
}

func BenchmarkSerializerMarshal(b *testing.B) {
	ev := benchEvent(b)
	s := DefaultSerializer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Marshal(ev)
	}
}

func BenchmarkEventBuild(b *testing.B) {
	actor := &Person{ID: "https://example.edu/users/554433"}
	object := &Document{ID: "https://example.edu/resources/123", Version: "1"}
	when := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = NewEventBuilder().Actor(actor).Action(ActionViewed).Object(object).EventTime(when).Build()
	}
}

func BenchmarkSensorSend(b *testing.B) {
	sensor, _ := NewSensor(SensorConfig{
		ID:               "https://example.edu/sensors/1",
		Endpoint:         "http://test.com",
		FlushInterval:    time.Hour,
		MaxBatchSize:     1 << 30,
		TransportAdapter: &benchTransportAdapter{},
		StorageAdapter:   adapters.NewNoOpStorageAdapter(),
		LoggerAdapter:    adapters.NewNoOpLoggerAdapter(),
		Metrics:          NewMetrics(),
	})
	if err := sensor.Init(); err != nil {
		b.Fatal(err)
	}
	defer sensor.DisposeWithoutFlush()
	ev := benchEvent(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sensor.Send(ev)
	}
}

func BenchmarkQueueEnqueue(b *testing.B) {
	queue := NewQueue()
	record := Record(`{"id":"urn:uuid:1"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		queue.Enqueue(record)
	}
}

func BenchmarkQueueDequeue(b *testing.B) {
	queue := NewQueue()
	record := Record(`{"id":"urn:uuid:1"}`)
	for i := 0; i < b.N; i++ {
		queue.Enqueue(record)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = queue.Dequeue()
	}
}

type benchTransportAdapter struct{}

func (a *benchTransportAdapter) Send(endpoint string, envelope *Envelope, headers map[string]string) (*Response, error) {
	return &Response{OK: true, Status: 200}, nil
}

func TestPerformanceRegression(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance regression tests in short mode")
	}

	result := testing.Benchmark(BenchmarkSerializerMarshal)
	nsPerOp := result.NsPerOp()

	// Serializing the extended event should stay well under a millisecond.
	if nsPerOp > 1_000_000 {
		t.Errorf("Marshal performance regression: %d ns/op > 1000000 ns/op threshold", nsPerOp)
	}

	t.Logf("Marshal performance: %d ns/op, %d allocs/op", nsPerOp, result.AllocsPerOp())
}
