package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Actions an expense event can carry.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEventMessage announces one expense mutation. It carries only the
// id and the action; consumers that need the full record fetch it from
// storage themselves.
type ExpenseEventMessage struct {
	ExpenseID  string    `json:"expense_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseEventMessage builds an event stamped with the current time.
func NewExpenseEventMessage(expenseID, action string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		ExpenseID:  expenseID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate rejects events with an unknown action or no expense id.
func (m *ExpenseEventMessage) Validate() error {
	if m.ExpenseID == "" {
		return fmt.Errorf("expense event missing expense_id")
	}
	switch m.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return nil
	}
	return fmt.Errorf("unknown expense event action %q", m.Action)
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON parses and validates a message.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
