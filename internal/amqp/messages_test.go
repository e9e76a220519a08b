package amqp

import (
	"errors"
	"testing"

	"budgetkoll/internal/core"
)

func TestMonthChangedMessageRoundtrip(t *testing.T) {
	msg := NewMonthChangedMessage("2025-03", "balance")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := MonthChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Month != "2025-03" || decoded.Reason != "balance" {
		t.Errorf("roundtrip mismatch: %+v", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestMonthChangedMessageRejectsBadMonth(t *testing.T) {
	_, err := MonthChangedMessageFromJSON([]byte(`{"month":"2025-99","reason":"balance"}`))
	if !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Errorf("got %v, want ErrInvalidMonthKey", err)
	}

	if _, err := MonthChangedMessageFromJSON([]byte(`not json`)); err == nil {
		t.Error("garbage should not decode")
	}
}
