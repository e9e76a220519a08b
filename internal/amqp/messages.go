package amqp

import (
	"encoding/json"
	"time"

	"budgetkoll/internal/core"
)

// MonthChangedMessage signals that manual data affecting a month changed
// (an actual balance, a budget item, transfer settings). It carries only
// the month key; the worker re-reads the full snapshot from storage and
// recomputes every month from this one forward.
type MonthChangedMessage struct {
	Month     core.MonthKey `json:"month"`
	Reason    string        `json:"reason"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewMonthChangedMessage creates a change message for a month.
func NewMonthChangedMessage(mk core.MonthKey, reason string) *MonthChangedMessage {
	return &MonthChangedMessage{
		Month:     mk,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *MonthChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthChangedMessageFromJSON creates a message from JSON bytes.
func MonthChangedMessageFromJSON(data []byte) (*MonthChangedMessage, error) {
	var msg MonthChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Month.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
