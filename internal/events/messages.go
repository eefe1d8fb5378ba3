// Package events publishes ledger change notifications over AMQP.
package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/models"
)

// Event names.
const (
	TransactionRecorded = "transaction.recorded"
	TransactionDeleted  = "transaction.deleted"
)

// Message is the JSON body of every notification.
type Message struct {
	Event         string                 `json:"event"`
	TransactionID uint                   `json:"transaction_id"`
	UserID        int64                  `json:"user_id"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          models.TransactionType `json:"type"`
	Category      string                 `json:"category"`
	Timestamp     time.Time              `json:"timestamp"`
}

// NewMessage describes event for tx at time at.
func NewMessage(event string, tx *models.Transaction, at time.Time) *Message {
	return &Message{
		Event:         event,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Category:      tx.Category,
		Timestamp:     at.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON decodes a message body.
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
