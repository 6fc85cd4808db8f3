package events

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is the lightweight message published on every ledger
// mutation. The audit worker records these without ever touching the
// ledger blob itself.
type TransactionEvent struct {
	Action      string    `json:"action"`
	ID          int64     `json:"id"`
	Type        string    `json:"type,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCreatedEvent builds the event for an appended transaction.
func NewCreatedEvent(id int64, txType string, amountCents int64, category string) *TransactionEvent {
	return &TransactionEvent{
		Action:      ActionCreated,
		ID:          id,
		Type:        txType,
		AmountCents: amountCents,
		Category:    category,
		Timestamp:   time.Now(),
	}
}

// NewDeletedEvent builds the event for a removed transaction.
func NewDeletedEvent(id int64) *TransactionEvent {
	return &TransactionEvent{
		Action:    ActionDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
