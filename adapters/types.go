package adapters

import "encoding/json"

// DataVersion is the Caliper context IRI advertised in every envelope.
const DataVersion = "http://purl.imsglobal.org/ctx/caliper/v1p1"

// Record is a single serialized Caliper event waiting for delivery.
type Record = json.RawMessage

// Envelope wraps a batch of records for transmission to an endpoint.
type Envelope struct {
	Sensor      string   `json:"sensor"`
	SendTime    string   `json:"sendTime"`
	DataVersion string   `json:"dataVersion"`
	Data        []Record `json:"data"`
}

// StorageQuotaExceededError is returned by storage adapters that cap the
// number of records they keep.
type StorageQuotaExceededError struct {
	Message string
}

func (e *StorageQuotaExceededError) Error() string {
	if e.Message == "" {
		return "storage quota exceeded"
	}
	return e.Message
}
