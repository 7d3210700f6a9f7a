package adapters

// NoOpStorageAdapter is a storage adapter that performs no operations.
// Useful for scenarios where record persistence is not required.
type NoOpStorageAdapter struct{}

// NewNoOpStorageAdapter creates a new NoOpStorageAdapter instance.
func NewNoOpStorageAdapter() *NoOpStorageAdapter {
	return &NoOpStorageAdapter{}
}

// Save does nothing and always returns nil.
func (n *NoOpStorageAdapter) Save(records []Record) error {
	return nil
}

// Load returns an empty slice and nil error.
func (n *NoOpStorageAdapter) Load() ([]Record, error) {
	return []Record{}, nil
}

// Clear does nothing and always returns nil.
func (n *NoOpStorageAdapter) Clear() error {
	return nil
}
