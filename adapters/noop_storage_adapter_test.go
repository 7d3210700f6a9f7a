package adapters

import (
	"testing"
)

func TestNoOpStorageAdapter_Save(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	err := adapter.Save([]Record{Record(`{"id":"urn:uuid:1"}`)})
	if err != nil {
		t.Errorf("Save should always return nil, got: %v", err)
	}
}

func TestNoOpStorageAdapter_Load(t *testing.T) {
	adapter := NewNoOpStorageAdapter()
	adapter.Save([]Record{Record(`{}`)})

	records, err := adapter.Load()
	if err != nil {
		t.Errorf("Load should return nil error, got: %v", err)
	}

	if records == nil {
		t.Error("Load should return empty slice, not nil")
	}

	if len(records) != 0 {
		t.Errorf("Load should return empty slice, got %d records", len(records))
	}
}

func TestNoOpStorageAdapter_Clear(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	err := adapter.Clear()
	if err != nil {
		t.Errorf("Clear should always return nil, got: %v", err)
	}
}

func TestNoOpStorageAdapter_Interface(t *testing.T) {
	var _ StorageAdapter = (*NoOpStorageAdapter)(nil)
}
