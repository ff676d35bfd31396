package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the ledger exchange.
const (
	EventTransactionRecorded   = "transaction.recorded"
	EventRecurringMaterialized = "recurring.materialized"
	EventRecurringDueSoon      = "recurring.due_soon"
)

// Event is a lightweight ledger notification. It carries only the entity ID
// and a display message; consumers fetch anything else from the database.
type Event struct {
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entityId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time
func NewEvent(kind, entityID, message string) *Event {
	return &Event{
		Kind:      kind,
		EntityID:  entityID,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
