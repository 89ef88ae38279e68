package amqp

import (
	"encoding/json"
	"time"
)

// FeeSyncMessage announces that a fee record was created or overwritten. It
// carries only the record id; the worker re-reads current ledger state so a
// stale message can never resurrect old field values.
type FeeSyncMessage struct {
	RecordID  string    `json:"recordId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewFeeSyncMessage(recordID string) *FeeSyncMessage {
	return &FeeSyncMessage{
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

func (m *FeeSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FeeSyncMessageFromJSON(data []byte) (*FeeSyncMessage, error) {
	var msg FeeSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
