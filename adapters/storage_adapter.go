package adapters

// StorageAdapter is an interface for persisting undelivered records.
// Implement this interface to use custom storage backends (database, Redis, S3, etc.).
type StorageAdapter interface {
	// Save persists records to storage, replacing anything stored before.
	//
	// Parameters:
	//   - records: Serialized events to save, in delivery order
	//
	// Returns error if save fails.
	Save(records []Record) error

	// Load retrieves persisted records from storage.
	//
	// Returns records in the order they were saved, or error.
	Load() ([]Record, error)

	// Clear removes all persisted records from storage.
	//
	// Returns error if clear fails.
	Clear() error
}
