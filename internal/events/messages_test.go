package events

import (
	"strings"
	"testing"
)

func TestEventJSONRoundTrip(t *testing.T) {
	e := NewCreatedEvent(42, "expense", 4000, "Food")
	raw, err := e.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := TransactionEventFromJSON(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Action != ActionCreated || got.ID != 42 || got.Type != "expense" ||
		got.AmountCents != 4000 || got.Category != "Food" {
		t.Fatalf("round trip = %+v", got)
	}
	if !got.Timestamp.Equal(e.Timestamp) {
		t.Fatalf("timestamp %v != %v", got.Timestamp, e.Timestamp)
	}
}

func TestDeletedEventOmitsEmptyFields(t *testing.T) {
	raw, err := NewDeletedEvent(7).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"action":"deleted"`) || !strings.Contains(s, `"id":7`) {
		t.Fatalf("json = %s", s)
	}
	for _, field := range []string{"amount_cents", "category", `"type"`} {
		if strings.Contains(s, field) {
			t.Fatalf("empty field %s not omitted: %s", field, s)
		}
	}
}

func TestEventFromInvalidJSON(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{broken")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
