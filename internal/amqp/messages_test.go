package amqp

import (
	"testing"
	"time"
)

func TestNewFeeSyncMessage(t *testing.T) {
	msg := NewFeeSyncMessage("rec-123")

	if msg.RecordID != "rec-123" {
		t.Errorf("NewFeeSyncMessage() RecordID = %v, want rec-123", msg.RecordID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewFeeSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewFeeSyncMessage() Timestamp should be recent")
	}
}

func TestFeeSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &FeeSyncMessage{
		RecordID:  "rec-123",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := FeeSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("FeeSyncMessageFromJSON() error = %v", err)
	}

	if parsed.RecordID != msg.RecordID {
		t.Errorf("Parsed RecordID = %v, want %v", parsed.RecordID, msg.RecordID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestFeeSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"recordId": 42}`)

	if _, err := FeeSyncMessageFromJSON(invalidJSON); err == nil {
		t.Error("FeeSyncMessageFromJSON() should fail with invalid JSON")
	}
}
