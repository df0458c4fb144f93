package amqp

import (
	"encoding/json"
	"time"
)

// RetrainMessage asks the training worker to refit both models from a
// fresh snapshot of one user's ledger. It carries no record data; the
// worker reads the store itself, so a burst of mutations collapses
// into equivalent retrains.
type RetrainMessage struct {
	User      string    `json:"user"`
	Trigger   string    `json:"trigger"` // mutation that caused the retrain: add, replace, reset
	Timestamp time.Time `json:"timestamp"`
}

// NewRetrainMessage creates a retrain request for a user's ledger.
func NewRetrainMessage(user, trigger string) *RetrainMessage {
	return &RetrainMessage{
		User:      user,
		Trigger:   trigger,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RetrainMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RetrainMessageFromJSON creates a message from JSON bytes.
func RetrainMessageFromJSON(data []byte) (*RetrainMessage, error) {
	var msg RetrainMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
