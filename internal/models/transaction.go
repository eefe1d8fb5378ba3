package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single classified ledger entry owned by a chat user.
// Rows are immutable after insert.
type Transaction struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"not null" json:"amount"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `gorm:"not null" json:"category"`
	Type        TransactionType `gorm:"column:transaction_type;not null" json:"type"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName pins the table name used by the SQL migrations.
func (Transaction) TableName() string { return "transactions" }

// Signed returns the amount with the sign of its type: positive for income,
// negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
