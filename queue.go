package caliper

import (
	"container/list"
	"sync"
)

// Queue represents a thread-safe FIFO queue of serialized events.
type Queue struct {
	mu   sync.Mutex
	list *list.List
}

// NewQueue creates and returns a new empty Queue.
func NewQueue() *Queue {
	return &Queue{list: list.New()}
}

// Enqueue adds a record to the end of the queue.
func (q *Queue) Enqueue(record Record) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list.PushBack(record)
}

// PushFront puts records back at the head of the queue, keeping their order.
func (q *Queue) PushFront(records []Record) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := len(records) - 1; i >= 0; i-- {
		q.list.PushFront(records[i])
	}
}

// Dequeue removes and returns the front record in the queue.
// It returns false if the queue is empty.
func (q *Queue) Dequeue() (Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.list.Len() == 0 {
		return nil, false
	}
	front := q.list.Front()
	q.list.Remove(front)
	return front.Value.(Record), true
}

// IsEmpty reports whether the queue has no elements.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of records currently in the queue.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.list.Len()
}

// Drain removes and returns every record, preserving order.
func (q *Queue) Drain() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	records := q.snapshot()
	q.list.Init()
	return records
}

// ToSlice returns all records in the queue as a slice, preserving order.
func (q *Queue) ToSlice() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

func (q *Queue) snapshot() []Record {
	records := make([]Record, 0, q.list.Len())
	for e := q.list.Front(); e != nil; e = e.Next() {
		records = append(records, e.Value.(Record))
	}
	return records
}

// LoadFromSlice replaces the queue contents with the provided records.
func (q *Queue) LoadFromSlice(records []Record) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list.Init()
	for _, r := range records {
		q.list.PushBack(r)
	}
}
